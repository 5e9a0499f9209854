package user

import "time"

// SeedUsers returns the fixture records the in-memory store starts with.
// Each call returns fresh values.
func SeedUsers() []User {
	return []User{
		{
			ID:        1,
			Email:     "admin@taskmaster.com",
			Password:  "hashed_password_1",
			FirstName: "Admin",
			LastName:  "User",
			Role:      RoleAdmin,
			IsActive:  true,
			CreatedAt: date(2026, time.January, 1),
			UpdatedAt: date(2026, time.January, 1),
		},
		{
			ID:        2,
			Email:     "manager@taskmaster.com",
			Password:  "hashed_password_2",
			FirstName: "Manager",
			LastName:  "User",
			Role:      RoleManager,
			IsActive:  true,
			CreatedAt: date(2026, time.January, 15),
			UpdatedAt: date(2026, time.January, 15),
		},
		{
			ID:        3,
			Email:     "member@taskmaster.com",
			Password:  "hashed_password_3",
			FirstName: "Member",
			LastName:  "User",
			Role:      RoleMember,
			IsActive:  true,
			CreatedAt: date(2026, time.February, 1),
			UpdatedAt: date(2026, time.February, 1),
		},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
