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

// Package periodicjobs runs background maintenance jobs of the roster service
// on fixed intervals.
package periodicjobs

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tournamate/rosterd/pkg/logger"
)

// PeriodicTask is a job the PeriodicTaskManager runs every GetInterval.
type PeriodicTask interface {
	// GetName returns a unique name used in logs
	GetName() string

	// GetInterval returns the time between two runs. A non-positive interval
	// disables the task.
	GetInterval() time.Duration

	// Run executes the task once
	Run(ctx context.Context) error
}

// PeriodicTaskManager owns the tickers of every registered task.
//
// Tasks are started together by Start and stop when the context passed to
// Start is cancelled. A failing run is logged and the task keeps its schedule.
type PeriodicTaskManager struct {
	mu    sync.Mutex
	tasks []PeriodicTask
	wg    sync.WaitGroup
}

// NewPeriodicTaskManager returns an empty manager
func NewPeriodicTaskManager() *PeriodicTaskManager {
	return &PeriodicTaskManager{}
}

// AddTask registers task. Tasks added after Start are not scheduled.
func (m *PeriodicTaskManager) AddTask(task PeriodicTask) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
}

// Tasks returns the registered tasks
func (m *PeriodicTaskManager) Tasks() []PeriodicTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PeriodicTask(nil), m.tasks...)
}

// Start launches one goroutine per enabled task. It does not block.
//
// Parameters:
//   - ctx: cancelling it stops every task after its current run
func (m *PeriodicTaskManager) Start(ctx context.Context) {
	for _, task := range m.Tasks() {
		log := logger.Logger(ctx).WithFields(logrus.Fields{
			"job":      task.GetName(),
			"interval": task.GetInterval().String(),
		})

		if task.GetInterval() <= 0 {
			log.Info("periodic job disabled")
			continue
		}

		log.Info("scheduling periodic job")
		m.wg.Add(1)
		go m.run(ctx, task, log)
	}
}

// Wait blocks until every started task has returned
func (m *PeriodicTaskManager) Wait() {
	m.wg.Wait()
}

func (m *PeriodicTaskManager) run(ctx context.Context, task PeriodicTask, log *logrus.Entry) {
	defer m.wg.Done()

	ticker := time.NewTicker(task.GetInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("periodic job stopped")
			return
		case <-ticker.C:
			started := time.Now()
			if err := task.Run(ctx); err != nil {
				log.WithError(err).Error("periodic job failed")
				continue
			}
			log.WithField("duration", time.Since(started).String()).Debug("periodic job finished")
		}
	}
}
