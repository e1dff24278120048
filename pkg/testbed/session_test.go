package testbed_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/explorationlab/explorations/internal/auth"
	"github.com/explorationlab/explorations/pkg/testbed"
)

var _ = Describe("Environment", func() {
	var env *testbed.Environment

	BeforeEach(func() {
		env = testbed.NewEnvironment(auth.NewFakeIdentityProvider(auth.LocalURLBuilder{Hostname: "localhost:8080"}))
	})

	It("should start anonymous", func() {
		Expect(env.Current().IsAnonymous()).To(BeTrue())
		Expect(env.Stashed()).To(BeFalse())
	})

	// Given a logged in user
	// When the environment is read
	// Then it holds the email, the derived id and the admin flag
	It("should login with a derived id", func() {
		s := env.Login("a@example.com", true)

		Expect(s.Email).To(Equal("a@example.com"))
		Expect(s.UserID).To(Equal(auth.DeriveID("a@example.com")))
		Expect(s.IsSuperAdmin).To(BeTrue())
		Expect(env.Current()).To(Equal(s))
	})

	It("should replace the previous login", func() {
		env.Login("a@example.com", true)
		env.Login("b@example.com", false)

		Expect(env.Current().Email).To(Equal("b@example.com"))
		Expect(env.Current().IsSuperAdmin).To(BeFalse())
	})

	It("should logout", func() {
		env.Login("a@example.com", false)

		env.Logout()

		Expect(env.Current().IsAnonymous()).To(BeTrue())
		Expect(env.Current().Email).To(BeEmpty())
	})

	Context("Stash", func() {
		// Given a logged in user who stashes the session
		// When another user logs in and the stash is restored
		// Then the first user is current again
		It("should restore the stashed session", func() {
			// Arrange
			original := env.Login("a@example.com", false)
			_, err := env.Stash()
			Expect(err).NotTo(HaveOccurred())

			// Act
			env.Login("admin@example.com", true)
			Expect(env.Restore()).To(Succeed())

			// Assert
			Expect(env.Current()).To(Equal(original))
			Expect(env.Stashed()).To(BeFalse())
		})

		It("should leave the current session in place when stashing", func() {
			s := env.Login("a@example.com", false)

			_, err := env.Stash()

			Expect(err).NotTo(HaveOccurred())
			Expect(env.Current()).To(Equal(s))
		})

		It("should stash an anonymous session", func() {
			_, err := env.Stash()
			Expect(err).NotTo(HaveOccurred())

			env.Login("a@example.com", false)
			Expect(env.Restore()).To(Succeed())

			Expect(env.Current().IsAnonymous()).To(BeTrue())
		})

		It("should fail to stash twice", func() {
			_, err := env.Stash()
			Expect(err).NotTo(HaveOccurred())

			_, err = env.Stash()

			Expect(err).To(MatchError(testbed.ErrNoActiveSession))
		})

		It("should fail to restore without a stash", func() {
			Expect(env.Restore()).To(MatchError(testbed.ErrNothingStashed))
		})

		It("should fail to restore twice", func() {
			_, err := env.Stash()
			Expect(err).NotTo(HaveOccurred())
			Expect(env.Restore()).To(Succeed())

			Expect(env.Restore()).To(MatchError(testbed.ErrNothingStashed))
		})
	})

	Context("StashGuard", func() {
		It("should restore once however often it is called", func() {
			original := env.Login("a@example.com", false)
			guard, err := env.Stash()
			Expect(err).NotTo(HaveOccurred())

			env.Login("b@example.com", false)
			Expect(guard.Restore()).To(Succeed())
			Expect(env.Current()).To(Equal(original))

			env.Login("c@example.com", false)
			Expect(guard.Restore()).To(Succeed())
			Expect(env.Current().Email).To(Equal("c@example.com"))
		})

		// Given a guard whose stash was already restored by hand
		// When a new stash is made and the old guard restores
		// Then the new stash is left alone
		It("should not restore a newer stash", func() {
			env.Login("a@example.com", false)
			old, err := env.Stash()
			Expect(err).NotTo(HaveOccurred())
			Expect(env.Restore()).To(Succeed())

			env.Login("b@example.com", false)
			_, err = env.Stash()
			Expect(err).NotTo(HaveOccurred())
			env.Login("c@example.com", false)

			Expect(old.Restore()).To(Succeed())

			Expect(env.Current().Email).To(Equal("c@example.com"))
			Expect(env.Stashed()).To(BeTrue())
		})
	})
})
