package roster_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tournamate/rosterd/pkg/common/structs"
	"github.com/tournamate/rosterd/pkg/roster"
	"github.com/tournamate/rosterd/pkg/store"
)

var _ = Describe("Coordinator", func() {
	for _, strategy := range []roster.Strategy{roster.StrategyAtomic, roster.StrategySequential} {
		strategy := strategy

		Context(fmt.Sprintf("with the %s strategy", strategy), func() {
			var (
				ctx   context.Context
				f     *fixture
				alpha *structs.Team
				beta  *structs.Team
			)

			BeforeEach(func() {
				ctx = context.Background()
				f = newFixture(strategy)

				var err error
				alpha, err = f.coordinator.CreateTeam(ctx, &structs.Team{Name: "Alpha", Owner: "ana"})
				Expect(err).NotTo(HaveOccurred())
				beta, err = f.coordinator.CreateTeam(ctx, &structs.Team{Name: "Beta", Owner: "ben"})
				Expect(err).NotTo(HaveOccurred())
			})

			It("reports its strategy", func() {
				Expect(f.coordinator.Strategy()).To(Equal(strategy))
			})

			Describe("CreatePlayer", func() {
				It("returns the draft with a fresh id", func() {
					draft := &structs.Player{
						Name:              "X",
						Category:          "B",
						PreferredPosition: []string{"ST"},
						Remarks:           []string{},
						Goals:             7,
					}

					created, err := f.coordinator.CreatePlayer(ctx, draft)
					Expect(err).NotTo(HaveOccurred())
					Expect(created.ID).NotTo(BeEmpty())

					got, err := f.coordinator.GetPlayer(ctx, created.ID)
					Expect(err).NotTo(HaveOccurred())

					want := *draft
					want.ID = created.ID
					Expect(*got).To(Equal(want))
					Expect(draft.ID).To(BeEmpty())
				})

				It("attaches the player to its team roster", func() {
					created, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "X", TeamID: alpha.ID})
					Expect(err).NotTo(HaveOccurred())

					team, err := f.coordinator.GetTeam(ctx, alpha.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(team.Players).To(HaveLen(1))
					Expect(team.Players[created.ID]).To(Equal(*created))
				})

				It("writes the player but no roster when the team does not exist", func() {
					created, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "X", TeamID: "nowhere"})
					Expect(err).NotTo(HaveOccurred())

					_, err = f.coordinator.GetPlayer(ctx, created.ID)
					Expect(err).NotTo(HaveOccurred())

					roster, err := f.store.Team.Roster(ctx, "nowhere")
					Expect(err).NotTo(HaveOccurred())
					Expect(roster).To(BeEmpty())

					report, err := f.coordinator.Reconcile(ctx)
					Expect(err).NotTo(HaveOccurred())
					Expect(report.Orphaned).To(ConsistOf(created.ID))
				})

				It("rejects a draft without a name", func() {
					_, err := f.coordinator.CreatePlayer(ctx, &structs.Player{TeamID: alpha.ID})
					Expect(err).To(MatchError(store.ErrValidation))

					players, err := f.coordinator.ListPlayers(ctx)
					Expect(err).NotTo(HaveOccurred())
					Expect(players).To(BeEmpty())
				})
			})

			Describe("UpdatePlayer", func() {
				var player *structs.Player

				BeforeEach(func() {
					var err error
					player, err = f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "X", TeamID: alpha.ID})
					Expect(err).NotTo(HaveOccurred())
				})

				It("moves the player between rosters on reassignment", func() {
					data := *player
					data.TeamID = beta.ID

					updated, err := f.coordinator.UpdatePlayer(ctx, player.ID, &data)
					Expect(err).NotTo(HaveOccurred())

					oldTeam, err := f.coordinator.GetTeam(ctx, alpha.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(oldTeam.Players).NotTo(HaveKey(player.ID))

					newTeam, err := f.coordinator.GetTeam(ctx, beta.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(newTeam.Players[player.ID]).To(Equal(*updated))
				})

				It("refreshes the snapshot when the team is unchanged", func() {
					data := *player
					data.Goals = 12
					data.Remarks = []string{"captain"}

					_, err := f.coordinator.UpdatePlayer(ctx, player.ID, &data)
					Expect(err).NotTo(HaveOccurred())

					team, err := f.coordinator.GetTeam(ctx, alpha.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(team.Players[player.ID].Goals).To(Equal(12))
					Expect(team.Players[player.ID].Remarks).To(Equal([]string{"captain"}))
				})

				It("removes the roster entry when the player is unassigned", func() {
					data := *player
					data.TeamID = ""

					_, err := f.coordinator.UpdatePlayer(ctx, player.ID, &data)
					Expect(err).NotTo(HaveOccurred())

					team, err := f.coordinator.GetTeam(ctx, alpha.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(team.Players).To(BeEmpty())
				})

				It("keeps the id from the path", func() {
					data := *player
					data.ID = "forged"

					updated, err := f.coordinator.UpdatePlayer(ctx, player.ID, &data)
					Expect(err).NotTo(HaveOccurred())
					Expect(updated.ID).To(Equal(player.ID))

					_, err = f.coordinator.GetPlayer(ctx, "forged")
					Expect(err).To(MatchError(store.ErrNotFound))
				})
			})

			Describe("DeletePlayer", func() {
				It("removes the record and the roster entry", func() {
					player, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "X", TeamID: alpha.ID})
					Expect(err).NotTo(HaveOccurred())

					Expect(f.coordinator.DeletePlayer(ctx, player.ID)).To(Succeed())

					_, err = f.coordinator.GetPlayer(ctx, player.ID)
					Expect(err).To(MatchError(store.ErrNotFound))

					team, err := f.coordinator.GetTeam(ctx, alpha.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(team.Players).NotTo(HaveKey(player.ID))
				})
			})

			Describe("missing players", func() {
				It("reports not found before validating the update", func() {
					_, err := f.coordinator.UpdatePlayer(ctx, "nobody", &structs.Player{Name: ""})
					Expect(err).To(MatchError(store.ErrNotFound))
					Expect(err).NotTo(MatchError(store.ErrValidation))
				})

				It("changes nothing on update or delete", func() {
					_, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "Y", TeamID: alpha.ID})
					Expect(err).NotTo(HaveOccurred())
					before := f.dump(ctx)

					_, err = f.coordinator.UpdatePlayer(ctx, "missing", &structs.Player{Name: "Z", TeamID: beta.ID})
					Expect(err).To(MatchError(store.ErrNotFound))

					err = f.coordinator.DeletePlayer(ctx, "missing")
					Expect(err).To(MatchError(store.ErrNotFound))

					Expect(f.dump(ctx)).To(Equal(before))
				})
			})

			It("tolerates detaching twice", func() {
				player, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "X", TeamID: alpha.ID})
				Expect(err).NotTo(HaveOccurred())

				Expect(f.store.Team.DetachPlayer(ctx, alpha.ID, player.ID)).To(Succeed())
				after, err := f.store.Team.Roster(ctx, alpha.ID)
				Expect(err).NotTo(HaveOccurred())

				Expect(f.store.Team.DetachPlayer(ctx, alpha.ID, player.ID)).To(Succeed())
				again, err := f.store.Team.Roster(ctx, alpha.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(again).To(Equal(after))
			})

			It("follows a player from Alpha to Beta and out", func() {
				Expect(alpha.Players).To(BeEmpty())

				player, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "X", TeamID: alpha.ID})
				Expect(err).NotTo(HaveOccurred())

				team, err := f.coordinator.GetTeam(ctx, alpha.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(team.Players).To(HaveLen(1))
				Expect(team.Players[player.ID]).To(Equal(*player))

				moved := *player
				moved.TeamID = beta.ID
				_, err = f.coordinator.UpdatePlayer(ctx, player.ID, &moved)
				Expect(err).NotTo(HaveOccurred())

				team, err = f.coordinator.GetTeam(ctx, alpha.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(team.Players).To(BeEmpty())

				team, err = f.coordinator.GetTeam(ctx, beta.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(team.Players).To(HaveLen(1))
				Expect(team.Players[player.ID]).To(Equal(moved))

				Expect(f.coordinator.DeletePlayer(ctx, player.ID)).To(Succeed())

				team, err = f.coordinator.GetTeam(ctx, beta.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(team.Players).To(BeEmpty())

				_, err = f.coordinator.GetPlayer(ctx, player.ID)
				Expect(err).To(MatchError(store.ErrNotFound))
			})

			Describe("teams", func() {
				It("ignores roster and stats sent on create", func() {
					team, err := f.coordinator.CreateTeam(ctx, &structs.Team{
						Name:    "Gamma",
						Players: map[string]structs.Player{"p": {ID: "p", Name: "P"}},
						Stats:   structs.TeamStats{TotalGoals: 3},
					})
					Expect(err).NotTo(HaveOccurred())
					Expect(team.Players).To(BeEmpty())
					Expect(team.Stats).To(Equal(structs.TeamStats{}))
				})

				It("keeps the roster on update", func() {
					player, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "X", TeamID: alpha.ID})
					Expect(err).NotTo(HaveOccurred())

					updated, err := f.coordinator.UpdateTeam(ctx, alpha.ID, &structs.Team{
						Name:  "Alpha FC",
						Stats: structs.TeamStats{MatchesPlayed: 1, MatchesDrawn: 1},
					})
					Expect(err).NotTo(HaveOccurred())
					Expect(updated.Name).To(Equal("Alpha FC"))
					Expect(updated.Players).To(HaveKey(player.ID))
				})

				It("reports a missing team before validating the update", func() {
					_, err := f.coordinator.UpdateTeam(ctx, "nowhere", &structs.Team{})
					Expect(err).To(MatchError(store.ErrNotFound))
				})

				It("returns not found for a missing team", func() {
					_, err := f.coordinator.GetTeam(ctx, "missing")
					Expect(err).To(MatchError(store.ErrNotFound))

					_, err = f.coordinator.UpdateTeam(ctx, "missing", &structs.Team{Name: "x"})
					Expect(err).To(MatchError(store.ErrNotFound))

					Expect(f.coordinator.DeleteTeam(ctx, "missing")).To(MatchError(store.ErrNotFound))
				})

				It("rejects a team without a name", func() {
					_, err := f.coordinator.CreateTeam(ctx, &structs.Team{})
					Expect(err).To(MatchError(store.ErrValidation))
				})

				It("lists teams with their rosters", func() {
					_, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "X", TeamID: beta.ID})
					Expect(err).NotTo(HaveOccurred())

					teams, err := f.coordinator.ListTeams(ctx)
					Expect(err).NotTo(HaveOccurred())
					Expect(teams).To(HaveLen(2))

					sizes := map[string]int{}
					for _, team := range teams {
						sizes[team.ID] = len(team.Players)
					}
					Expect(sizes).To(Equal(map[string]int{alpha.ID: 0, beta.ID: 1}))
				})

				It("unassigns every player when a team is deleted", func() {
					first, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "X", TeamID: alpha.ID})
					Expect(err).NotTo(HaveOccurred())
					second, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "Y", TeamID: alpha.ID})
					Expect(err).NotTo(HaveOccurred())
					other, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "Z", TeamID: beta.ID})
					Expect(err).NotTo(HaveOccurred())

					Expect(f.coordinator.DeleteTeam(ctx, alpha.ID)).To(Succeed())

					_, err = f.coordinator.GetTeam(ctx, alpha.ID)
					Expect(err).To(MatchError(store.ErrNotFound))

					for _, id := range []string{first.ID, second.ID} {
						player, err := f.coordinator.GetPlayer(ctx, id)
						Expect(err).NotTo(HaveOccurred())
						Expect(player.TeamID).To(BeEmpty())
					}

					roster, err := f.store.Team.Roster(ctx, alpha.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(roster).To(BeEmpty())

					untouched, err := f.coordinator.GetPlayer(ctx, other.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(untouched.TeamID).To(Equal(beta.ID))
				})
			})

			Describe("Reconcile", func() {
				It("reports nothing on consistent data", func() {
					_, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "X", TeamID: alpha.ID})
					Expect(err).NotTo(HaveOccurred())

					report, err := f.coordinator.Reconcile(ctx)
					Expect(err).NotTo(HaveOccurred())
					Expect(report.Changed()).To(BeFalse())
					Expect(report.Orphaned).To(BeEmpty())
				})

				It("repairs missing, stale and foreign roster entries", func() {
					missing, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "Missing", TeamID: alpha.ID})
					Expect(err).NotTo(HaveOccurred())
					stale, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "Stale", TeamID: alpha.ID})
					Expect(err).NotTo(HaveOccurred())
					moved, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "Moved", TeamID: alpha.ID})
					Expect(err).NotTo(HaveOccurred())

					// break the rosters behind the coordinator's back
					Expect(f.store.Team.DetachPlayer(ctx, alpha.ID, missing.ID)).To(Succeed())
					changed := *stale
					changed.Goals = 5
					Expect(f.store.Player.Put(ctx, &changed)).To(Succeed())
					relocated := *moved
					relocated.TeamID = beta.ID
					Expect(f.store.Player.Put(ctx, &relocated)).To(Succeed())
					Expect(f.store.Team.AttachPlayer(ctx, beta.ID, &structs.Player{ID: "ghost", Name: "Ghost"})).To(Succeed())

					report, err := f.coordinator.Reconcile(ctx)
					Expect(err).NotTo(HaveOccurred())
					Expect(report.Attached).To(ConsistOf(
						roster.RosterEntry{TeamID: alpha.ID, PlayerID: missing.ID},
						roster.RosterEntry{TeamID: alpha.ID, PlayerID: stale.ID},
						roster.RosterEntry{TeamID: beta.ID, PlayerID: moved.ID},
					))
					Expect(report.Detached).To(ConsistOf(
						roster.RosterEntry{TeamID: alpha.ID, PlayerID: moved.ID},
						roster.RosterEntry{TeamID: beta.ID, PlayerID: "ghost"},
					))

					team, err := f.coordinator.GetTeam(ctx, alpha.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(team.Players).To(HaveLen(2))
					Expect(team.Players[stale.ID].Goals).To(Equal(5))

					again, err := f.coordinator.Reconcile(ctx)
					Expect(err).NotTo(HaveOccurred())
					Expect(again.Changed()).To(BeFalse())
				})

				It("detaches entries left under a team whose record is gone", func() {
					kept, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "Kept", TeamID: alpha.ID})
					Expect(err).NotTo(HaveOccurred())
					gone, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "Gone", TeamID: alpha.ID})
					Expect(err).NotTo(HaveOccurred())

					Expect(f.cache.Delete(ctx, store.TeamKey(alpha.ID))).To(Succeed())
					Expect(f.store.Player.Delete(ctx, gone.ID)).To(Succeed())

					report, err := f.coordinator.Reconcile(ctx)
					Expect(err).NotTo(HaveOccurred())
					Expect(report.Attached).To(BeEmpty())
					Expect(report.Detached).To(ConsistOf(
						roster.RosterEntry{TeamID: alpha.ID, PlayerID: kept.ID},
						roster.RosterEntry{TeamID: alpha.ID, PlayerID: gone.ID},
					))
					Expect(report.Orphaned).To(ConsistOf(kept.ID))

					for key := range f.dump(ctx) {
						Expect(key).NotTo(HavePrefix("roster:" + alpha.ID))
					}

					again, err := f.coordinator.Reconcile(ctx)
					Expect(err).NotTo(HaveOccurred())
					Expect(again.Changed()).To(BeFalse())
					Expect(again.Orphaned).To(ConsistOf(kept.ID))
				})
			})
		})
	}

	Describe("write failures", func() {
		var ctx context.Context

		BeforeEach(func() {
			ctx = context.Background()
		})

		It("leaves no trace of a failed atomic batch", func() {
			f := newFixture(roster.StrategyAtomic)
			alpha, err := f.coordinator.CreateTeam(ctx, &structs.Team{Name: "Alpha"})
			Expect(err).NotTo(HaveOccurred())
			before := f.dump(ctx)

			f.cache.failWrites("roster:")
			_, err = f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "X", TeamID: alpha.ID})
			Expect(err).To(MatchError(store.ErrBackend))
			Expect(err).To(MatchError(errInjected))

			var partial *roster.PartialConsistencyError
			Expect(err).NotTo(BeAssignableToTypeOf(partial))
			Expect(f.dump(ctx)).To(Equal(before))
		})

		It("reports a partial write in sequential mode and reconcile repairs it", func() {
			f := newFixture(roster.StrategySequential)
			alpha, err := f.coordinator.CreateTeam(ctx, &structs.Team{Name: "Alpha"})
			Expect(err).NotTo(HaveOccurred())

			f.cache.failWrites("roster:")
			_, err = f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "X", TeamID: alpha.ID})

			var partial *roster.PartialConsistencyError
			Expect(err).To(BeAssignableToTypeOf(partial))
			Expect(err).To(MatchError(errInjected))
			partial = err.(*roster.PartialConsistencyError)
			Expect(partial.Operation).To(Equal("create player"))
			Expect(partial.Applied).To(HaveLen(1))
			Expect(partial.Failed).To(HavePrefix("attach roster:" + alpha.ID))
			Expect(partial.Pending).To(BeEmpty())

			// the canonical write went through, the roster did not
			players, err := f.coordinator.ListPlayers(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(players).To(HaveLen(1))
			team, err := f.coordinator.GetTeam(ctx, alpha.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(team.Players).To(BeEmpty())

			f.cache.failWrites("")
			report, err := f.coordinator.Reconcile(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Attached).To(ConsistOf(roster.RosterEntry{TeamID: alpha.ID, PlayerID: players[0].ID}))

			team, err = f.coordinator.GetTeam(ctx, alpha.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(team.Players).To(HaveKey(players[0].ID))
		})

		It("never leaves a player on two rosters when a sequential reassignment fails", func() {
			f := newFixture(roster.StrategySequential)
			alpha, err := f.coordinator.CreateTeam(ctx, &structs.Team{Name: "Alpha"})
			Expect(err).NotTo(HaveOccurred())
			beta, err := f.coordinator.CreateTeam(ctx, &structs.Team{Name: "Beta"})
			Expect(err).NotTo(HaveOccurred())
			player, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "X", TeamID: alpha.ID})
			Expect(err).NotTo(HaveOccurred())

			f.cache.failWrites("roster:" + beta.ID)
			moved := *player
			moved.TeamID = beta.ID
			_, err = f.coordinator.UpdatePlayer(ctx, player.ID, &moved)
			Expect(err).To(BeAssignableToTypeOf(&roster.PartialConsistencyError{}))

			oldTeam, err := f.coordinator.GetTeam(ctx, alpha.ID)
			Expect(err).NotTo(HaveOccurred())
			newTeam, err := f.coordinator.GetTeam(ctx, beta.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(oldTeam.Players).NotTo(HaveKey(player.ID))
			Expect(newTeam.Players).NotTo(HaveKey(player.ID))
		})

		It("leaves a stale roster entry when a sequential delete fails and reconcile removes it", func() {
			f := newFixture(roster.StrategySequential)
			alpha, err := f.coordinator.CreateTeam(ctx, &structs.Team{Name: "Alpha"})
			Expect(err).NotTo(HaveOccurred())
			player, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "X", TeamID: alpha.ID})
			Expect(err).NotTo(HaveOccurred())

			f.cache.failWrites("roster:")
			err = f.coordinator.DeletePlayer(ctx, player.ID)

			var partial *roster.PartialConsistencyError
			Expect(errors.As(err, &partial)).To(BeTrue())
			Expect(partial.Operation).To(Equal("delete player"))
			Expect(partial.Applied).To(Equal([]string{"delete " + store.PlayerKey(player.ID)}))
			Expect(partial.Failed).To(Equal("detach " + store.RosterKey(alpha.ID, player.ID)))

			_, err = f.coordinator.GetPlayer(ctx, player.ID)
			Expect(err).To(MatchError(store.ErrNotFound))
			team, err := f.coordinator.GetTeam(ctx, alpha.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(team.Players).To(HaveKey(player.ID))

			f.cache.failWrites("")
			report, err := f.coordinator.Reconcile(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Detached).To(ConsistOf(roster.RosterEntry{TeamID: alpha.ID, PlayerID: player.ID}))

			team, err = f.coordinator.GetTeam(ctx, alpha.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(team.Players).To(BeEmpty())
		})

		It("keeps the team when a sequential cascade fails after unassigning players", func() {
			f := newFixture(roster.StrategySequential)
			alpha, err := f.coordinator.CreateTeam(ctx, &structs.Team{Name: "Alpha"})
			Expect(err).NotTo(HaveOccurred())
			first, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "X", TeamID: alpha.ID})
			Expect(err).NotTo(HaveOccurred())
			second, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "Y", TeamID: alpha.ID})
			Expect(err).NotTo(HaveOccurred())

			f.cache.failWrites("roster:")
			err = f.coordinator.DeleteTeam(ctx, alpha.ID)

			var partial *roster.PartialConsistencyError
			Expect(errors.As(err, &partial)).To(BeTrue())
			Expect(partial.Operation).To(Equal("delete team"))
			Expect(partial.Applied).To(HaveLen(2))
			Expect(partial.Failed).To(HavePrefix("detach roster:" + alpha.ID))
			Expect(partial.Pending).To(ContainElement("delete " + store.TeamKey(alpha.ID)))

			for _, id := range []string{first.ID, second.ID} {
				player, err := f.coordinator.GetPlayer(ctx, id)
				Expect(err).NotTo(HaveOccurred())
				Expect(player.TeamID).To(BeEmpty())
			}
			team, err := f.coordinator.GetTeam(ctx, alpha.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(team.Players).To(HaveLen(2))

			f.cache.failWrites("")
			report, err := f.coordinator.Reconcile(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Detached).To(ConsistOf(
				roster.RosterEntry{TeamID: alpha.ID, PlayerID: first.ID},
				roster.RosterEntry{TeamID: alpha.ID, PlayerID: second.ID},
			))

			Expect(f.coordinator.DeleteTeam(ctx, alpha.ID)).To(Succeed())
			_, err = f.coordinator.GetTeam(ctx, alpha.ID)
			Expect(err).To(MatchError(store.ErrNotFound))
		})

		It("returns a plain backend error when the first sequential write fails", func() {
			f := newFixture(roster.StrategySequential)
			f.cache.failWrites("player:")

			_, err := f.coordinator.CreatePlayer(ctx, &structs.Player{Name: "X"})
			Expect(err).To(MatchError(store.ErrBackend))
			Expect(err).NotTo(BeAssignableToTypeOf(&roster.PartialConsistencyError{}))
		})
	})
})

var _ = Describe("ParseStrategy", func() {
	DescribeTable("write modes",
		func(mode string, want roster.Strategy, wantErr bool) {
			got, err := roster.ParseStrategy(mode)
			if wantErr {
				Expect(err).To(HaveOccurred())
				return
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("atomic", "atomic", roster.StrategyAtomic, false),
		Entry("empty defaults to atomic", "", roster.StrategyAtomic, false),
		Entry("sequential", "sequential", roster.StrategySequential, false),
		Entry("unknown", "eventual", roster.Strategy(""), true),
	)
})
