package main

import (
	"os"

	"github.com/go-extras/cobraflags"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/explorationlab/explorations/internal/config"
)

var _ = Describe("loadConfiguration", func() {
	var (
		cmd   *cobra.Command
		rf    rootFlags
		flags runFlags
	)

	setenv := func(key, value string) {
		Expect(os.Setenv(key, value)).To(Succeed())
		DeferCleanup(os.Unsetenv, key)
	}

	BeforeEach(func() {
		viper.Reset()
		DeferCleanup(viper.Reset)

		defaults := config.NewConfigurationWithOptionsAndDefaults()
		rf = newRootFlags(defaults)
		flags = newRunFlags(defaults)
		cmd = &cobra.Command{Use: "run"}
		cobraflags.Register(cmd, rf.all()...)
		cobraflags.Register(cmd, flags.all()...)
	})

	It("should return the defaults without flags or environment", func() {
		Expect(cmd.ParseFlags(nil)).To(Succeed())

		cfg, err := loadConfiguration(rf, flags)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.HTTPPort).To(Equal(8080))
		Expect(cfg.Datastore.Path).To(Equal(":memory:"))
		Expect(cfg.LogLevel).To(Equal("debug"))
	})

	It("should prefer a flag over the environment", func() {
		// Given the port in both the environment and the command line
		setenv("EXPLORATIONS_SERVER_HTTP_PORT", "7000")
		setenv("EXPLORATIONS_STORAGE_ENDPOINT", "http://s3.local")
		Expect(cmd.ParseFlags([]string{"--http-port", "9000", "--queue-root", "/srv/queues"})).To(Succeed())

		// When the configuration is loaded
		cfg, err := loadConfiguration(rf, flags)

		// Then the flag wins and the environment fills the rest
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.HTTPPort).To(Equal(9000))
		Expect(cfg.TaskQueue.RootPath).To(Equal("/srv/queues"))
		Expect(cfg.Storage.Endpoint).To(Equal("http://s3.local"))
	})

	It("should set flags from their environment variables before running", func() {
		// Given the port under the flag's own variable name
		setenv("EXPLORATIONS_HTTP_PORT", "9100")
		setenv("EXPLORATIONS_LOG_FORMAT", "json")
		Expect(cmd.ParseFlags(nil)).To(Succeed())

		// When the root pre-run hook runs for the command
		Expect(newRootCommand().PersistentPreRunE(cmd, nil)).To(Succeed())
		cfg, err := loadConfiguration(rf, flags)

		// Then the flags carry the environment values
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.HTTPPort).To(Equal(9100))
		Expect(cfg.LogFormat).To(Equal("json"))
	})

	DescribeTable("should reject invalid values",
		func(args []string) {
			Expect(cmd.ParseFlags(args)).To(Succeed())

			_, err := loadConfiguration(rf, flags)

			Expect(err).To(HaveOccurred())
		},
		Entry("port out of range", []string{"--http-port", "0"}),
		Entry("unknown log level", []string{"--log-level", "loud"}),
		Entry("unknown log format", []string{"--log-format", "xml"}),
	)

	It("should read the config file named by --config", func() {
		path := GinkgoT().TempDir() + "/explorations.yaml"
		Expect(os.WriteFile(path, []byte("mail:\n  sender: noreply@example.org\nserver:\n  http-port: 8181\n"), 0o600)).To(Succeed())
		Expect(cmd.ParseFlags([]string{"--config", path})).To(Succeed())

		cfg, err := loadConfiguration(rf, flags)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Mail.Sender).To(Equal("noreply@example.org"))
		Expect(cfg.Server.HTTPPort).To(Equal(8181))
	})
})
