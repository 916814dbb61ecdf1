package cmd

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/sakti/internal"
)

func TestCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cmd Suite")
}

const sampleConfig = `
database:
  driver: sqlite
  source: "file:sakti.db"
security:
  jwt_secret: "0123456789abcdef0123456789abcdef"
  cookie_hash_key: "0123456789abcdef0123456789abcdef"
auth:
  mode: mock
`

var _ = Describe("loadConfig", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("should apply defaults and validate", func() {
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(sampleConfig), 0o600)).To(Succeed())

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(8080))
		Expect(cfg.Auth.Mode).To(Equal(internal.AuthModeMock))
		Expect(cfg.Client.BaseURL).To(Equal("http://localhost:8080/api/v1"))
	})

	It("should reject an unknown auth mode", func() {
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(
			"database:\n  driver: sqlite\n  source: x\n"+
				"security:\n  jwt_secret: \"0123456789abcdef0123456789abcdef\"\n  cookie_hash_key: \"0123456789abcdef0123456789abcdef\"\n"+
				"auth:\n  mode: ldap\n"), 0o600)).To(Succeed())

		_, err := loadConfig(dir)
		Expect(err).To(MatchError(ContainSubstring("auth config")))
	})

	It("should let client commands run without a config file", func() {
		serverURL = "http://sakti.example/api/v1"
		DeferCleanup(func() { serverURL = "" })

		cfg, err := loadClientConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Client.BaseURL).To(Equal("http://sakti.example/api/v1"))
		Expect(cfg.Client.SessionFile).NotTo(BeEmpty())
	})
})

var _ = Describe("command tree", func() {
	It("should register the server, maintenance and client commands", func() {
		names := map[string]bool{}
		for _, c := range rootCmd.Commands() {
			names[c.Name()] = true
		}
		for _, want := range []string{"server", "migrate", "seed", "login", "logout", "whoami", "menu", "dashboard", "change-requests", "approvals", "notifications"} {
			Expect(names).To(HaveKey(want))
		}
	})
})
