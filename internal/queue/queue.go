package queue

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/explorationlab/explorations/internal/models"
)

// DefinitionsFile is the queue definition file looked up under the root path.
const DefinitionsFile = "queue.yaml"

// TaskQueue schedules tasks and exposes the pending ones.
type TaskQueue interface {
	// Add schedules tasks on the named queue.
	Add(ctx context.Context, queueName string, tasks ...*models.Task) error
	// Pending returns the tasks waiting on the named queues, or on every
	// queue when none is named. Queues come in name order and tasks within
	// a queue in the order they were added.
	Pending(ctx context.Context, queueNames ...string) ([]*models.Task, error)
	// Delete removes the given tasks from their queues.
	Delete(ctx context.Context, tasks ...*models.Task) error
	// Queues returns the names of every defined queue, sorted.
	Queues(ctx context.Context) ([]string, error)
}

type Definition struct {
	Name string `yaml:"name"`
	Rate string `yaml:"rate"`
}

type Definitions struct {
	Queues []Definition `yaml:"queue"`
}

// Names returns the queue names, always including the default queue.
func (d Definitions) Names() []string {
	seen := map[string]bool{models.DefaultQueue: true}
	names := []string{models.DefaultQueue}
	for _, q := range d.Queues {
		if !seen[q.Name] {
			seen[q.Name] = true
			names = append(names, q.Name)
		}
	}
	sort.Strings(names)
	return names
}

// ParseDefinitions decodes a queue.yaml document.
func ParseDefinitions(data []byte) (Definitions, error) {
	var d Definitions
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Definitions{}, fmt.Errorf("failed to parse queue definitions: %w", err)
	}
	for i, q := range d.Queues {
		if q.Name == "" {
			return Definitions{}, fmt.Errorf("queue definition %d has no name", i)
		}
	}
	return d, nil
}

// LoadDefinitions reads queue.yaml from rootPath.
func LoadDefinitions(rootPath string) (Definitions, error) {
	data, err := os.ReadFile(filepath.Join(rootPath, DefinitionsFile))
	if err != nil {
		return Definitions{}, fmt.Errorf("failed to read queue definitions: %w", err)
	}
	return ParseDefinitions(data)
}

// SortTasks orders tasks by queue name, then ETA, then name.
func SortTasks(tasks []*models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Queue != b.Queue {
			return a.Queue < b.Queue
		}
		if !a.ETA.Equal(b.ETA) {
			return a.ETA.Before(b.ETA)
		}
		return a.Name < b.Name
	})
}
