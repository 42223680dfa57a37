/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package periodicjobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tournamate/rosterd/pkg/logger"
	"github.com/tournamate/rosterd/pkg/roster"
)

const (
	// RosterReconcileJobName is the unique identifier for the roster repair job.
	RosterReconcileJobName = "rosterd_roster_reconcile"
)

// RosterReconciler rebuilds team rosters from the player records.
type RosterReconciler interface {
	Reconcile(ctx context.Context) (*roster.ReconcileReport, error)
}

// RosterReconcileJob implements a periodic job that repairs rosters left
// behind by failed sequential writes.
//
// The job performs the following operations:
//  1. Reads every player and every team roster
//  2. Re-attaches missing or stale snapshots
//  3. Removes roster entries of deleted or reassigned players
//
// The reconciler takes the shared cache lock for writing, so a run never
// observes a half applied player mutation.
type RosterReconcileJob struct {

	// reconciler performs the repair pass
	reconciler RosterReconciler

	// interval between two runs, zero disables the job
	interval time.Duration

	logger *logrus.Entry
}

// NewRosterReconcileJob creates a job running reconciler every interval.
//
// Parameters:
//   - reconciler: usually the roster coordinator
//   - interval: value of roster.reconcileInterval
//
// Returns:
//   - *RosterReconcileJob: A configured job instance
func NewRosterReconcileJob(reconciler RosterReconciler, interval time.Duration) *RosterReconcileJob {
	return &RosterReconcileJob{
		reconciler: reconciler,
		interval:   interval,
	}
}

// AddToPeriodicTaskManager registers this job with the provided periodic task manager.
func (j *RosterReconcileJob) AddToPeriodicTaskManager(mgr *PeriodicTaskManager) {
	mgr.AddTask(j)
}

// GetInterval returns the execution interval for this periodic job.
func (j *RosterReconcileJob) GetInterval() time.Duration {
	return j.interval
}

// GetName returns the unique name identifier for this periodic job.
func (j *RosterReconcileJob) GetName() string {
	return RosterReconcileJobName
}

// Run executes one reconcile pass and logs a summary of the repairs.
//
// Parameters:
//   - ctx: Context for cancellation and logging
//
// Returns:
//   - error: the reconcile failure, nil when the pass completed
func (j *RosterReconcileJob) Run(ctx context.Context) error {
	ctx = logger.WithRequestId(ctx, uuid.New().String())
	j.logger = logger.Logger(ctx).WithFields(logrus.Fields{
		"job": RosterReconcileJobName,
	})
	j.logger.Info("Starting roster reconcile job")

	report, err := j.reconciler.Reconcile(ctx)
	if err != nil {
		j.logger.WithError(err).Error("Roster reconcile job failed")
		return err
	}

	j.logger.WithFields(logrus.Fields{
		"attached": len(report.Attached),
		"detached": len(report.Detached),
		"orphaned": len(report.Orphaned),
	}).Info("Roster reconcile job completed")

	if len(report.Orphaned) > 0 {
		j.logger.WithField("players", report.Orphaned).Warn("Players reference teams that do not exist")
	}
	return nil
}
