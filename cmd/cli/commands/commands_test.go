package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/rider-rota/internal/config"
	"github.com/jakechorley/rider-rota/pkg/core/allocator"
	"github.com/jakechorley/rider-rota/pkg/core/services"
	"github.com/jakechorley/rider-rota/pkg/db"
)

type mockRunStore struct {
	runs        []db.ScheduleRun
	assignments map[string][]db.ScheduleAssignment
}

func newMockRunStore() *mockRunStore {
	return &mockRunStore{assignments: make(map[string][]db.ScheduleAssignment)}
}

func (m *mockRunStore) GetRuns(ctx context.Context) ([]db.ScheduleRun, error) {
	return append([]db.ScheduleRun(nil), m.runs...), nil
}

func (m *mockRunStore) GetRun(ctx context.Context, id string) (*db.ScheduleRun, error) {
	for i := range m.runs {
		if m.runs[i].ID == id {
			run := m.runs[i]
			return &run, nil
		}
	}
	return nil, db.ErrRunNotFound
}

func (m *mockRunStore) GetAssignments(ctx context.Context, runID string) ([]db.ScheduleAssignment, error) {
	return m.assignments[runID], nil
}

func (m *mockRunStore) InsertRun(ctx context.Context, run *db.ScheduleRun, assignments []db.ScheduleAssignment) error {
	m.runs = append(m.runs, *run)
	m.assignments[run.ID] = assignments
	return nil
}

type mockPublisher struct {
	tabTitle string
	rows     int
}

func (m *mockPublisher) PublishSchedule(spreadsheetID, tabTitle string, grid [][]string) error {
	m.tabTitle = tabTitle
	m.rows = len(grid)
	return nil
}

func pairConfig(workers int, targets []int, ceiling int) *config.Config {
	labels := []string{"S1", "S2", "S3", "S4", "S5"}
	slots := make([]config.SlotConfig, len(labels))
	for i, label := range labels {
		slots[i] = config.SlotConfig{Label: label, Target: targets[i], Max: ceiling}
	}
	return &config.Config{
		Scheme:          "pair",
		Workers:         workers,
		Slots:           slots,
		Policy:          allocator.DefaultPolicy(),
		ScheduleSheetID: "sheet-1",
	}
}

func newTestApp(cfg *config.Config, store db.RunStore) *AppContext {
	return &AppContext{
		Cfg:    cfg,
		Logger: zap.NewNop(),
		Ctx:    context.Background(),
		Env:    "test",
		Database: store,
	}
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestOccupancyColor(t *testing.T) {
	green, yellow, red := "GREEN", "YELLOW", "RED"

	tests := []struct {
		name      string
		occupancy int
		target    int
		expected  string
	}{
		{"target met", 20, 20, green},
		{"above target", 22, 20, green},
		{"zero target", 0, 0, green},
		{"short by a tenth", 18, 20, yellow},
		{"short by one of ten", 9, 10, yellow},
		{"short by more than a tenth", 17, 20, red},
		{"empty slot", 0, 5, red},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, occupancyColor(tt.occupancy, tt.target, green, yellow, red))
		})
	}
}

func TestCombinationCounts(t *testing.T) {
	order, counts := combinationCounts([][]string{{"S1", "S2"}, {"S3", "S4"}, {"S1", "S2"}})

	assert.Equal(t, []string{"S1+S2", "S3+S4"}, order)
	assert.Equal(t, 2, counts["S1+S2"])
	assert.Equal(t, 1, counts["S3+S4"])
}

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
		wantErr  bool
	}{
		{"plain", "exportSchedule abc --out x.csv", []string{"exportSchedule", "abc", "--out", "x.csv"}, false},
		{"double quotes", `exportSchedule --out "my file.csv"`, []string{"exportSchedule", "--out", "my file.csv"}, false},
		{"single quotes", `publishSchedule 'run 1'`, []string{"publishSchedule", "run 1"}, false},
		{"extra spaces", "  listRuns   ", []string{"listRuns"}, false},
		{"unclosed quote", `exportSchedule "abc`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCommandLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestServerAddress(t *testing.T) {
	cfg := &config.Config{ServerAddress: "localhost:9000"}

	assert.Equal(t, ":7000", serverAddress(":7000", cfg))
	assert.Equal(t, "localhost:9000", serverAddress("", cfg))
	assert.Equal(t, ":8080", serverAddress("", &config.Config{}))
	assert.Equal(t, ":8080", serverAddress("", nil))
}

func TestCheckFeasibilityCmd(t *testing.T) {
	app := newTestApp(pairConfig(50, []int{20, 20, 20, 20, 20}, 25), nil)
	out, err := run(t, CheckFeasibilityCmd(app))
	require.NoError(t, err)
	assert.Contains(t, out, "Min required:  50")
	assert.Contains(t, out, "Max placeable: 62")
	assert.Contains(t, out, "Targets are feasible")

	app = newTestApp(pairConfig(40, []int{50, 5, 5, 5, 5}, 60), nil)
	out, err = run(t, CheckFeasibilityCmd(app))
	require.NoError(t, err)
	assert.Contains(t, out, "Infeasible")
	assert.Contains(t, out, "S1")
}

func TestAllocateShiftsCmd_Stores(t *testing.T) {
	store := newMockRunStore()
	app := newTestApp(pairConfig(50, []int{20, 20, 20, 20, 20}, 25), store)

	out, err := run(t, AllocateShiftsCmd(app))
	require.NoError(t, err)

	require.Len(t, store.runs, 1)
	assert.Len(t, store.assignments[store.runs[0].ID], 50)
	assert.Contains(t, out, "Schedule stored")
	assert.Contains(t, out, store.runs[0].ID)
	assert.Contains(t, out, "Combinations:")
	assert.Contains(t, out, "All targets met")
}

func TestAllocateShiftsCmd_DryRun(t *testing.T) {
	store := newMockRunStore()
	app := newTestApp(pairConfig(39, []int{20, 20, 20, 20, 20}, 25), store)

	out, err := run(t, AllocateShiftsCmd(app), "--dry-run")
	require.NoError(t, err)

	assert.Empty(t, store.runs)
	assert.Contains(t, out, "Dry run")
	assert.Contains(t, out, "redistributed")
	assert.Contains(t, out, "Redistributed targets met; configured targets were lowered to fit 39 workers")
	assert.NotContains(t, out, "All targets met")
}

func TestAllocateShiftsCmd_AllTargetsMet(t *testing.T) {
	app := newTestApp(pairConfig(50, []int{20, 20, 20, 20, 20}, 25), nil)

	out, err := run(t, AllocateShiftsCmd(app), "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "All targets met")
	assert.NotContains(t, out, "Redistributed targets met")
}

func TestAllocateShiftsCmd_NoDatabase(t *testing.T) {
	app := newTestApp(pairConfig(50, []int{20, 20, 20, 20, 20}, 25), nil)

	_, err := run(t, AllocateShiftsCmd(app))
	assert.ErrorIs(t, err, ErrNoDatabase)

	out, err := run(t, AllocateShiftsCmd(app), "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run")
}

func TestAllocateShiftsCmd_Infeasible(t *testing.T) {
	app := newTestApp(pairConfig(40, []int{50, 5, 5, 5, 5}, 60), newMockRunStore())

	_, err := run(t, AllocateShiftsCmd(app))
	var infeasible *allocator.InfeasibleError
	assert.True(t, errors.As(err, &infeasible))
}

// storedApp returns an app whose store holds one allocated run
func storedApp(t *testing.T) (*AppContext, *mockRunStore) {
	t.Helper()
	store := newMockRunStore()
	app := newTestApp(pairConfig(3, []int{2, 2, 1, 1, 0}, 2), store)
	_, err := services.AllocateShifts(app.Ctx, store, app.Cfg, app.Logger, services.AllocateOptions{
		Now: func() time.Time { return time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return app, store
}

func TestListRunsCmd(t *testing.T) {
	app := newTestApp(pairConfig(3, []int{2, 2, 1, 1, 0}, 2), newMockRunStore())
	out, err := run(t, ListRunsCmd(app))
	require.NoError(t, err)
	assert.Contains(t, out, "No stored runs.")

	app, store := storedApp(t)
	out, err = run(t, ListRunsCmd(app))
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 runs")
	assert.Contains(t, out, store.runs[0].ID)
	assert.Contains(t, out, "2026-03-04 10:00")

	_, err = run(t, ListRunsCmd(newTestApp(app.Cfg, nil)))
	assert.ErrorIs(t, err, ErrNoDatabase)
}

func TestExportScheduleCmd(t *testing.T) {
	app, store := storedApp(t)

	out, err := run(t, ExportScheduleCmd(app))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Worker,S1,S2,S3,S4,S5,Kind,Method,Preferred\n"))

	path := filepath.Join(t.TempDir(), "schedule.csv")
	out, err = run(t, ExportScheduleCmd(app), store.runs[0].ID, "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported run "+store.runs[0].ID)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Occupancy,")

	_, err = run(t, ExportScheduleCmd(app), "missing")
	assert.ErrorIs(t, err, db.ErrRunNotFound)
}

func TestPublishScheduleCmd(t *testing.T) {
	app, store := storedApp(t)
	publisher := &mockPublisher{}
	created := 0
	app.NewPublisher = func() (services.SchedulePublisher, error) {
		created++
		return publisher, nil
	}

	out, err := run(t, PublishScheduleCmd(app))
	require.NoError(t, err)
	assert.Contains(t, out, "Published run "+store.runs[0].ID)
	assert.Equal(t, services.TabTitle(&store.runs[0]), publisher.tabTitle)
	assert.Equal(t, 1+len(store.assignments[store.runs[0].ID])+3, publisher.rows)

	_, err = run(t, PublishScheduleCmd(app))
	require.NoError(t, err)
	assert.Equal(t, 1, created, "Publisher is created once per app")
}

func TestPublishScheduleCmd_NoSheet(t *testing.T) {
	app, _ := storedApp(t)
	app.Cfg.ScheduleSheetID = ""
	app.NewPublisher = func() (services.SchedulePublisher, error) {
		t.Fatal("Publisher should not be created without a sheet")
		return nil, nil
	}

	_, err := run(t, PublishScheduleCmd(app))
	assert.ErrorIs(t, err, services.ErrNoScheduleSheet)
}

func TestInteractiveSession(t *testing.T) {
	app, store := storedApp(t)

	root := &cobra.Command{Use: "rota"}
	root.AddCommand(ListRunsCmd(app))
	root.AddCommand(ExportScheduleCmd(app))
	root.AddCommand(ServeCmd(app))
	root.AddCommand(InteractiveCmd(app))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader("help\nlistRuns\nbogus\nexportSchedule a b\nlistRuns extra\nexit\nlistRuns\n"))
	root.SetArgs([]string{"interactive"})

	require.NoError(t, root.Execute())

	text := out.String()
	assert.Contains(t, text, "Available commands:")
	assert.Contains(t, text, "exportSchedule [run_id]")
	assert.NotContains(t, text, "serve ", "serve blocks and is not offered in a session")
	assert.Contains(t, text, store.runs[0].ID)
	assert.Contains(t, text, "Unknown command: bogus")
	assert.Contains(t, text, "accepts at most 1 arg(s), received 2")
	assert.Contains(t, text, "unknown command \"extra\"")
	assert.Contains(t, text, "Goodbye!")
	assert.Equal(t, 1, strings.Count(text, "Found 1 runs"), "Commands after exit are not run")
}
