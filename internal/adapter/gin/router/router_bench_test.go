package router

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskmaster-user-service/internal/adapter/gin/handler"
	"taskmaster-user-service/internal/adapter/repository/memory"
	"taskmaster-user-service/internal/config"
	"taskmaster-user-service/internal/usecase/user"
	"taskmaster-user-service/pkg/security"
)

func setupBenchmarkRouter(b *testing.B) *gin.Engine {
	b.Helper()
	log := zap.NewNop()
	cfg := &config.Config{App: config.AppConfig{Env: "test", APIVersion: "v1"}}
	uc := user.New(memory.NewSeededUserStore(log), log, user.WithPasswordHasher(security.NewBcryptHasher(bcrypt.MinCost)))
	return SetupRouter(cfg, handler.NewUserHandler(uc, log), nil, log)
}

func BenchmarkGetUser(b *testing.B) {
	r := setupBenchmarkRouter(b)

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/2", nil))
			if w.Code != http.StatusOK {
				b.Errorf("unexpected status %d", w.Code)
			}
		}
	})
}

func BenchmarkListUsers(b *testing.B) {
	r := setupBenchmarkRouter(b)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
	}
}

func BenchmarkCreateUser(b *testing.B) {
	r := setupBenchmarkRouter(b)
	var counter int64

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			n := atomic.AddInt64(&counter, 1)
			body := fmt.Sprintf(`{"email":"bench%d@x.com","password":"p","firstName":"B","lastName":"U"}`, n)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusCreated {
				b.Errorf("unexpected status %d", w.Code)
			}
		}
	})
}
