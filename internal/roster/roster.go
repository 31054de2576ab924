// Package roster holds the in-memory team roster and reconciles every
// integration's writes through one merge policy. All mutations go through a
// single mutex so concurrent enrichment goroutines serialize; after each
// mutation the full state is written back to the store.
package roster

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/cnp-robotics/scout-cli/internal/model"
	"github.com/cnp-robotics/scout-cli/internal/resilience"
	"github.com/cnp-robotics/scout-cli/internal/store"
)

// Settings is the small persisted configuration blob.
type Settings struct {
	Target string `json:"target,omitempty"`
}

// Roster is the reconciliation engine over one event's team records.
type Roster struct {
	mu       sync.Mutex
	st       store.Store
	reg      *model.Registry
	teams    map[string]*model.TeamRecord
	mine     *model.TeamRecord
	settings Settings
	log      []model.ObservationLogEntry
}

// New creates an empty roster backed by st.
func New(st store.Store, reg *model.Registry) *Roster {
	return &Roster{
		st:    st,
		reg:   reg,
		teams: map[string]*model.TeamRecord{},
	}
}

// Load restores roster state from the store. Missing blobs mean first run and
// load as empty.
func (r *Roster) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := loadBlob(ctx, r.st, store.BlobTeams, &r.teams); err != nil {
		return err
	}
	if r.teams == nil {
		r.teams = map[string]*model.TeamRecord{}
	}
	if err := loadBlob(ctx, r.st, store.BlobMine, &r.mine); err != nil {
		return err
	}
	if err := loadBlob(ctx, r.st, store.BlobSettings, &r.settings); err != nil {
		return err
	}
	if err := loadBlob(ctx, r.st, store.BlobObservations, &r.log); err != nil {
		return err
	}
	zap.L().Debug("roster loaded",
		zap.Int("teams", len(r.teams)),
		zap.Int("observations", len(r.log)),
	)
	return nil
}

func loadBlob(ctx context.Context, st store.Store, name string, v any) error {
	data, err := st.GetBlob(ctx, name)
	if resilience.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return eris.Wrapf(json.Unmarshal(data, v), "roster: decode %s", name)
}

// Get returns a copy of one record, or a NotFoundError.
func (r *Roster) Get(number string) (*model.TeamRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.teams[number]
	if !ok {
		return nil, &resilience.NotFoundError{Kind: "team", Key: number}
	}
	return rec.Clone(), nil
}

// List returns copies of all records sorted by team number.
func (r *Roster) List() []*model.TeamRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.TeamRecord, 0, len(r.teams))
	for _, rec := range r.teams {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i].Number)
		b, _ := strconv.Atoi(out[j].Number)
		return a < b
	})
	return out
}

// Numbers returns all team numbers sorted ascending.
func (r *Roster) Numbers() []string {
	teams := r.List()
	out := make([]string, len(teams))
	for i, rec := range teams {
		out[i] = rec.Number
	}
	return out
}

// Len returns the number of records.
func (r *Roster) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.teams)
}

// Mine returns a copy of the reference record for our own robot, or nil if
// never set.
func (r *Roster) Mine() *model.TeamRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mine == nil {
		return nil
	}
	return r.mine.Clone()
}

// SetMine stores the reference record for our own robot.
func (r *Roster) SetMine(ctx context.Context, rec *model.TeamRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.UpdatedAt = time.Now().UTC()
	r.mine = rec.Clone()
	return saveBlob(ctx, r.st, store.BlobMine, r.mine)
}

// Target returns the current target team number, or "".
func (r *Roster) Target() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings.Target
}

// SetTarget marks one team as the active target and clears the previous one.
// An empty number clears the target entirely. Unknown numbers are rejected.
func (r *Roster) SetTarget(ctx context.Context, number string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if number != "" {
		if _, ok := r.teams[number]; !ok {
			return &resilience.NotFoundError{Kind: "team", Key: number}
		}
	}
	for _, rec := range r.teams {
		rec.Target = rec.Number == number && number != ""
	}
	r.settings.Target = number

	if err := saveBlob(ctx, r.st, store.BlobTeams, r.teams); err != nil {
		return err
	}
	return saveBlob(ctx, r.st, store.BlobSettings, r.settings)
}

// SetFetchState records one integration's lifecycle state on a record.
func (r *Roster) SetFetchState(ctx context.Context, number, integration string, s model.FetchState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.teams[number]
	if !ok {
		return &resilience.NotFoundError{Kind: "team", Key: number}
	}
	rec.SetFetch(integration, s)
	return saveBlob(ctx, r.st, store.BlobTeams, r.teams)
}

// Delete removes one record. Deleting the target also clears the target.
func (r *Roster) Delete(ctx context.Context, number string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.teams[number]; !ok {
		return &resilience.NotFoundError{Kind: "team", Key: number}
	}
	delete(r.teams, number)
	if r.settings.Target == number {
		r.settings.Target = ""
		if err := saveBlob(ctx, r.st, store.BlobSettings, r.settings); err != nil {
			return err
		}
	}
	return saveBlob(ctx, r.st, store.BlobTeams, r.teams)
}

// Reset wipes all roster state, including the observation log and settings.
// The reference record survives a reset.
func (r *Roster) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.teams = map[string]*model.TeamRecord{}
	r.log = nil
	r.settings = Settings{}

	for _, name := range []string{store.BlobTeams, store.BlobSettings, store.BlobObservations, store.BlobSnapshots} {
		if err := r.st.DeleteBlob(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// ObservationLog returns a copy of the append-only observation log.
func (r *Roster) ObservationLog() []model.ObservationLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.ObservationLogEntry(nil), r.log...)
}

// AddSnapshot archives an analysis run alongside previous ones.
func (r *Roster) AddSnapshot(ctx context.Context, snap model.AnalysisSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var snaps []model.AnalysisSnapshot
	if err := loadBlob(ctx, r.st, store.BlobSnapshots, &snaps); err != nil {
		return err
	}
	snaps = append(snaps, snap)
	return saveBlob(ctx, r.st, store.BlobSnapshots, snaps)
}

// Snapshots returns all archived analysis runs, oldest first.
func (r *Roster) Snapshots(ctx context.Context) ([]model.AnalysisSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var snaps []model.AnalysisSnapshot
	if err := loadBlob(ctx, r.st, store.BlobSnapshots, &snaps); err != nil {
		return nil, err
	}
	return snaps, nil
}

func saveBlob(ctx context.Context, st store.Store, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return eris.Wrapf(err, "roster: encode %s", name)
	}
	return st.PutBlob(ctx, name, data)
}
