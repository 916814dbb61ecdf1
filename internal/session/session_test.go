package session_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/sakti/internal/core/user"
	"github.com/frahmantamala/sakti/internal/role"
	"github.com/frahmantamala/sakti/internal/session"
)

func TestSession(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Session Suite")
}

func teknisi() *user.User {
	return &user.User{ID: "usr-teknisi", Username: "teknisi", Name: "Budi Teknisi", Role: role.Teknisi}
}

var _ = Describe("Store", func() {
	var (
		storage *session.MemoryStorage
		store   *session.Store
	)

	BeforeEach(func() {
		storage = session.NewMemoryStorage()
		store = session.NewStore(storage)
	})

	Context("when nothing is stored", func() {
		It("should not be authenticated", func() {
			Expect(store.IsAuthenticated()).To(BeFalse())
			Expect(store.GetUser()).To(BeNil())
			Expect(store.GetToken()).To(BeEmpty())
		})
	})

	Context("after a successful save", func() {
		BeforeEach(func() {
			Expect(store.Save(session.Session{Token: "jwt", User: teknisi()})).To(Succeed())
		})

		It("should be authenticated and return the stored user", func() {
			Expect(store.IsAuthenticated()).To(BeTrue())
			Expect(store.GetToken()).To(Equal("jwt"))
			Expect(store.GetUser().Username).To(Equal("teknisi"))
			Expect(store.GetUser().Role).To(Equal(role.Teknisi))
		})

		It("should flip to unauthenticated when the token is removed", func() {
			Expect(storage.Remove(session.KeyToken)).To(Succeed())
			Expect(store.IsAuthenticated()).To(BeFalse())
		})

		It("should flip to unauthenticated when the user is removed", func() {
			Expect(storage.Remove(session.KeyUser)).To(Succeed())
			Expect(store.IsAuthenticated()).To(BeFalse())
		})

		It("should treat a corrupt user record as no session", func() {
			Expect(storage.Set(session.KeyUser, "{not json")).To(Succeed())
			Expect(store.GetUser()).To(BeNil())
			Expect(store.IsAuthenticated()).To(BeFalse())
		})

		It("should keep a user with an unknown or missing role", func() {
			Expect(storage.Set(session.KeyUser, `{"id":"x","username":"x","role":"admin"}`)).To(Succeed())
			Expect(store.IsAuthenticated()).To(BeTrue())
			Expect(store.GetUser().Role.Valid()).To(BeFalse())

			Expect(storage.Set(session.KeyUser, `{"id":"u1","username":"teknisi"}`)).To(Succeed())
			Expect(store.IsAuthenticated()).To(BeTrue())
			Expect(store.GetUser().Username).To(Equal("teknisi"))
			Expect(store.GetUser().Role).To(BeEmpty())
		})

		It("should read a numeric user id", func() {
			Expect(storage.Set(session.KeyUser, `{"id":1,"username":"teknisi","role":"teknisi"}`)).To(Succeed())
			Expect(store.IsAuthenticated()).To(BeTrue())
			Expect(store.GetUser().ID).To(Equal("1"))
			Expect(store.GetUser().Role).To(Equal(role.Teknisi))
		})

		It("should not treat non-object JSON as a user", func() {
			for _, raw := range []string{`null`, `"teknisi"`, `42`, `[1]`} {
				Expect(storage.Set(session.KeyUser, raw)).To(Succeed())
				Expect(store.GetUser()).To(BeNil(), raw)
				Expect(store.IsAuthenticated()).To(BeFalse(), raw)
			}
		})

		It("should clear every key on logout", func() {
			Expect(storage.Set("theme", "dark")).To(Succeed())
			Expect(store.Logout()).To(Succeed())
			Expect(store.IsAuthenticated()).To(BeFalse())
			_, ok := storage.Get("theme")
			Expect(ok).To(BeFalse())
		})
	})

	It("should refuse to save a partial session", func() {
		Expect(store.Save(session.Session{Token: "jwt"})).To(MatchError(session.ErrEmptySession))
		Expect(store.Save(session.Session{User: teknisi()})).To(MatchError(session.ErrEmptySession))
	})
})

var _ = Describe("FileStorage", func() {
	var path string

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "nested", "session.json")
	})

	It("should persist across instances with owner-only permissions", func() {
		first := session.NewStore(session.NewFileStorage(path))
		Expect(first.Save(session.Session{Token: "jwt", User: teknisi()})).To(Succeed())

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))

		second := session.NewStore(session.NewFileStorage(path))
		Expect(second.IsAuthenticated()).To(BeTrue())
		Expect(second.GetUser().ID).To(Equal("usr-teknisi"))
	})

	It("should remove the file on clear", func() {
		storage := session.NewFileStorage(path)
		Expect(storage.Set(session.KeyToken, "jwt")).To(Succeed())
		Expect(storage.Clear()).To(Succeed())
		_, err := os.Stat(path)
		Expect(os.IsNotExist(err)).To(BeTrue())
		Expect(storage.Clear()).To(Succeed())
	})

	It("should report nothing stored for a corrupt file", func() {
		Expect(os.MkdirAll(filepath.Dir(path), 0o700)).To(Succeed())
		Expect(os.WriteFile(path, []byte("garbage"), 0o600)).To(Succeed())
		store := session.NewStore(session.NewFileStorage(path))
		Expect(store.IsAuthenticated()).To(BeFalse())
		Expect(store.Save(session.Session{Token: "jwt", User: teknisi()})).To(Succeed())
		Expect(store.IsAuthenticated()).To(BeTrue())
	})
})

var _ = Describe("CookieStorage", func() {
	var codec *session.CookieCodec

	BeforeEach(func() {
		codec = session.NewCookieCodec([]byte("0123456789abcdef0123456789abcdef"), []byte("0123456789abcdef"), false, time.Hour)
	})

	lastCookie := func(rec *httptest.ResponseRecorder) *http.Cookie {
		cookies := rec.Result().Cookies()
		Expect(cookies).NotTo(BeEmpty())
		return cookies[len(cookies)-1]
	}

	It("should round trip a session through the response cookie", func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		store := session.NewStore(codec.Storage(rec, req))
		Expect(store.Save(session.Session{Token: "jwt", User: teknisi()})).To(Succeed())

		next := httptest.NewRequest(http.MethodGet, "/", nil)
		next.AddCookie(lastCookie(rec))
		restored := session.NewStore(codec.Storage(httptest.NewRecorder(), next))
		Expect(restored.IsAuthenticated()).To(BeTrue())
		Expect(restored.GetToken()).To(Equal("jwt"))
	})

	It("should ignore a tampered cookie", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "forged"})
		store := session.NewStore(codec.Storage(httptest.NewRecorder(), req))
		Expect(store.IsAuthenticated()).To(BeFalse())
	})

	It("should expire the cookie on logout", func() {
		rec := httptest.NewRecorder()
		store := session.NewStore(codec.Storage(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
		Expect(store.Logout()).To(Succeed())
		Expect(lastCookie(rec).MaxAge).To(BeNumerically("<", 0))
	})
})
