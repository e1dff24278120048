package store_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.chromium.org/luci/gae/impl/memory"
	ds "go.chromium.org/luci/gae/service/datastore"

	"github.com/explorationlab/explorations/internal/models"
	"github.com/explorationlab/explorations/internal/store"
	"github.com/explorationlab/explorations/internal/store/gaestore"
	"github.com/explorationlab/explorations/internal/store/sqlstore"
	srvErrors "github.com/explorationlab/explorations/pkg/errors"
)

type backendFactory struct {
	name string
	open func() (context.Context, *store.Store)
}

var backends = []backendFactory{
	{
		name: "sql",
		open: func() (context.Context, *store.Store) {
			ctx := context.Background()
			db, err := sqlstore.NewDB(":memory:")
			Expect(err).NotTo(HaveOccurred())
			s, err := sqlstore.New(ctx, db)
			Expect(err).NotTo(HaveOccurred())
			return ctx, s
		},
	},
	{
		name: "gae",
		open: func() (context.Context, *store.Store) {
			ctx := memory.Use(context.Background())
			ds.GetTestable(ctx).Consistent(true)
			ds.GetTestable(ctx).AutoIndex(true)
			return ctx, gaestore.New()
		},
	},
}

func newExploration(id, owner string, createdAt time.Time) *models.Exploration {
	exp := models.NewDefaultExploration(id, "Title "+id, "A category")
	exp.OwnerID = owner
	exp.Version = 1
	exp.CreatedAt = createdAt
	exp.UpdatedAt = createdAt
	return exp
}

var _ = Describe("Store", func() {
	for _, b := range backends {
		Describe(b.name, func() {
			var (
				ctx context.Context
				s   *store.Store
				t0  time.Time
			)

			BeforeEach(func() {
				ctx, s = b.open()
				t0 = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
			})

			AfterEach(func() {
				Expect(s.Close()).To(Succeed())
			})

			Context("Exploration", func() {
				// Given an empty store
				// When we get an exploration
				// Then it should return a not found error
				It("should return ResourceNotFoundError for a missing exploration", func() {
					_, err := s.Exploration().Get(ctx, "missing")

					Expect(err).To(HaveOccurred())
					Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
				})

				// Given a saved exploration
				// When we read it back
				// Then every field and the states survive
				It("should save and read an exploration", func() {
					// Arrange
					exp := newExploration("exp0", "owner", t0)
					exp.Objective = "Learn"

					// Act
					Expect(s.Exploration().Save(ctx, exp)).To(Succeed())
					got, err := s.Exploration().Get(ctx, "exp0")

					// Assert
					Expect(err).NotTo(HaveOccurred())
					Expect(got.Title).To(Equal("Title exp0"))
					Expect(got.OwnerID).To(Equal("owner"))
					Expect(got.Objective).To(Equal("Learn"))
					Expect(got.Version).To(Equal(int64(1)))
					Expect(got.CreatedAt).To(BeTemporally("==", t0))
					Expect(got.States).To(HaveKey(models.DefaultInitStateName))
					Expect(got.InitState().Widget.Handlers[0].RuleSpecs[0].Dest).To(Equal(models.DefaultInitStateName))
				})

				It("should overwrite an exploration saved twice", func() {
					exp := newExploration("exp0", "owner", t0)
					Expect(s.Exploration().Save(ctx, exp)).To(Succeed())

					exp.Title = "Renamed"
					exp.Version = 2
					Expect(s.Exploration().Save(ctx, exp)).To(Succeed())

					got, err := s.Exploration().Get(ctx, "exp0")
					Expect(err).NotTo(HaveOccurred())
					Expect(got.Title).To(Equal("Renamed"))
					Expect(got.Version).To(Equal(int64(2)))

					all, err := s.Exploration().List(ctx)
					Expect(err).NotTo(HaveOccurred())
					Expect(all).To(HaveLen(1))
				})

				// Given explorations of two owners, one published
				// When we list with filters
				// Then only matching explorations come back in creation order
				It("should filter and page the list", func() {
					// Arrange
					for i, id := range []string{"a", "b", "c"} {
						exp := newExploration(id, "alice", t0.Add(time.Duration(i)*time.Minute))
						Expect(s.Exploration().Save(ctx, exp)).To(Succeed())
					}
					published := newExploration("d", "bob", t0.Add(time.Hour))
					published.Published = true
					Expect(s.Exploration().Save(ctx, published)).To(Succeed())

					// Act
					byOwner, err := s.Exploration().List(ctx, store.ByOwner("alice"))
					Expect(err).NotTo(HaveOccurred())
					paged, err := s.Exploration().List(ctx, store.ByOwner("alice"), store.WithOffset(1), store.WithLimit(1))
					Expect(err).NotTo(HaveOccurred())
					pub, err := s.Exploration().List(ctx, store.ByPublished(true))
					Expect(err).NotTo(HaveOccurred())

					// Assert
					Expect(ids(byOwner)).To(Equal([]string{"a", "b", "c"}))
					Expect(ids(paged)).To(Equal([]string{"b"}))
					Expect(ids(pub)).To(Equal([]string{"d"}))
				})

				It("should delete an exploration", func() {
					Expect(s.Exploration().Save(ctx, newExploration("exp0", "owner", t0))).To(Succeed())

					Expect(s.Exploration().Delete(ctx, "exp0")).To(Succeed())

					_, err := s.Exploration().Get(ctx, "exp0")
					Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
				})
			})

			Context("ConfigProperty", func() {
				It("should return ResourceNotFoundError for a property never saved", func() {
					_, err := s.ConfigProperty().Get(ctx, models.AdminEmails)

					Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
				})

				// Given a property saved twice
				// When we read it
				// Then the last value wins
				It("should return the latest saved value", func() {
					Expect(s.ConfigProperty().Save(ctx, models.AdminEmails, []string{"a@example.com"})).To(Succeed())
					Expect(s.ConfigProperty().Get(ctx, models.AdminEmails)).To(Equal([]string{"a@example.com"}))

					Expect(s.ConfigProperty().Save(ctx, models.AdminEmails, []string{"b@example.com", "c@example.com"})).To(Succeed())

					value, err := s.ConfigProperty().Get(ctx, models.AdminEmails)
					Expect(err).NotTo(HaveOccurred())
					Expect(value).To(Equal([]string{"b@example.com", "c@example.com"}))
				})

				It("should store an empty list", func() {
					Expect(s.ConfigProperty().Save(ctx, models.BannedUsernames, nil)).To(Succeed())

					value, err := s.ConfigProperty().Get(ctx, models.BannedUsernames)
					Expect(err).NotTo(HaveOccurred())
					Expect(value).To(BeEmpty())
				})
			})

			Context("User", func() {
				It("should find a user by id and by username ignoring case", func() {
					u := &models.UserSettings{
						UserID:        "uid",
						Email:         "editor@example.com",
						Username:      "Editor",
						AgreedToTerms: true,
						RegisteredAt:  t0,
					}
					Expect(s.User().Save(ctx, u)).To(Succeed())

					byID, err := s.User().Get(ctx, "uid")
					Expect(err).NotTo(HaveOccurred())
					Expect(byID.Username).To(Equal("Editor"))
					Expect(byID.AgreedToTerms).To(BeTrue())

					byName, err := s.User().GetByUsername(ctx, "editor")
					Expect(err).NotTo(HaveOccurred())
					Expect(byName.UserID).To(Equal("uid"))
				})

				It("should return ResourceNotFoundError for an unknown user", func() {
					_, err := s.User().Get(ctx, "nobody")
					Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())

					_, err = s.User().GetByUsername(ctx, "nobody")
					Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
				})
			})

			Context("DeleteAll", func() {
				// Given records of every kind
				// When we delete all
				// Then nothing is left
				It("should empty every kind", func() {
					Expect(s.Exploration().Save(ctx, newExploration("exp0", "owner", t0))).To(Succeed())
					Expect(s.ConfigProperty().Save(ctx, models.AdminEmails, []string{"a@example.com"})).To(Succeed())
					Expect(s.User().Save(ctx, &models.UserSettings{UserID: "uid", Username: "u", RegisteredAt: t0})).To(Succeed())

					Expect(s.DeleteAll(ctx)).To(Succeed())

					all, err := s.Exploration().List(ctx)
					Expect(err).NotTo(HaveOccurred())
					Expect(all).To(BeEmpty())
					_, err = s.User().Get(ctx, "uid")
					Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
				})
			})
		})
	}
})

func ids(exps []*models.Exploration) []string {
	out := make([]string, 0, len(exps))
	for _, e := range exps {
		out = append(out, e.ID)
	}
	return out
}
