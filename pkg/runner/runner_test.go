package runner

import (
	"context"
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sdejongh/sheetdiff/pkg/compare"
	"github.com/sdejongh/sheetdiff/pkg/diff"
	"github.com/sdejongh/sheetdiff/pkg/logging"
	"github.com/sdejongh/sheetdiff/pkg/models"
	"github.com/sdejongh/sheetdiff/pkg/visual"
	"github.com/sdejongh/sheetdiff/pkg/workbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// TestHelper provides old and new folders for runner tests
type TestHelper struct {
	t      *testing.T
	oldDir string
	newDir string
}

// NewTestHelper creates empty old and new folders
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()
	root := t.TempDir()
	h := &TestHelper{t: t, oldDir: filepath.Join(root, "old"), newDir: filepath.Join(root, "new")}
	require.NoError(t, os.MkdirAll(h.oldDir, 0755))
	require.NoError(t, os.MkdirAll(h.newDir, 0755))
	return h
}

func (h *TestHelper) CreateOldFile(name, content string) {
	h.t.Helper()
	require.NoError(h.t, os.WriteFile(filepath.Join(h.oldDir, name), []byte(content), 0644))
}

func (h *TestHelper) CreateNewFile(name, content string) {
	h.t.Helper()
	require.NoError(h.t, os.WriteFile(filepath.Join(h.newDir, name), []byte(content), 0644))
}

func (h *TestHelper) Operation(process models.ProcessMode) *models.CompareOperation {
	return &models.CompareOperation{
		ID:           "op-test",
		OldPath:      h.oldDir,
		NewPath:      h.newDir,
		Process:      process,
		Hash:         models.HashMD5,
		Algorithm:    models.AlgorithmDifflib,
		ContextLines: diff.DefaultContext,
		BufferSize:   compare.DefaultChunkSize,
	}
}

// recordingFormatter keeps everything the runner reports
type recordingFormatter struct {
	events    []string
	lines     []diff.Line
	completed *models.ComparisonReport
}

func (f *recordingFormatter) Start(io.Writer, *models.CompareOperation) error { return nil }
func (f *recordingFormatter) Converting(path string) error {
	f.events = append(f.events, "converting:"+filepath.Base(path))
	return nil
}
func (f *recordingFormatter) Unchanged(name string) error {
	f.events = append(f.events, "unchanged:"+name)
	return nil
}
func (f *recordingFormatter) Changed(name string) error {
	f.events = append(f.events, "changed:"+name)
	return nil
}
func (f *recordingFormatter) Diff(lines iter.Seq[diff.Line]) error {
	for line := range lines {
		f.lines = append(f.lines, line)
	}
	return nil
}
func (f *recordingFormatter) Complete(report *models.ComparisonReport) error {
	f.completed = report
	return nil
}
func (f *recordingFormatter) Error(error) error { return nil }
func (f *recordingFormatter) Name() string      { return "recording" }

func (f *recordingFormatter) rendered() []string {
	out := make([]string, 0, len(f.lines))
	for _, l := range f.lines {
		out = append(out, l.String())
	}
	return out
}

// recordingLauncher records launched pairs, optionally failing
type recordingLauncher struct {
	pairs [][2]string
	err   error
}

func (l *recordingLauncher) Launch(_ context.Context, oldPath, newPath string) error {
	if l.err != nil {
		return l.err
	}
	l.pairs = append(l.pairs, [2]string{oldPath, newPath})
	return nil
}

// stubConverter maps workbook paths to prepared folders, copying them into
// fresh scratch directories it remembers
type stubConverter struct {
	t       *testing.T
	sources map[string]map[string]string
	fail    map[string]error
	created []string
}

func (c *stubConverter) Convert(_ context.Context, path string) (string, error) {
	if err := c.fail[path]; err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp(c.t.TempDir(), "scratch-*")
	require.NoError(c.t, err)
	for name, content := range c.sources[path] {
		require.NoError(c.t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	c.created = append(c.created, dir)
	return dir, nil
}

func (c *stubConverter) assertRemoved() {
	c.t.Helper()
	for _, dir := range c.created {
		_, err := os.Stat(dir)
		assert.True(c.t, os.IsNotExist(err), "scratch directory %s should be removed", dir)
	}
}

func newRunner(op *models.CompareOperation, f *recordingFormatter, conv Converter, l Launcher) *Runner {
	return New(op, compare.NewMD5Comparator(op.BufferSize), f, logging.NewNullLogger(), conv, l)
}

func TestRun_SingleChangedFile(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateOldFile("a.csv", "x,y\n1,2\n")
	h.CreateNewFile("a.csv", "x,y\n1,3\n")

	f := &recordingFormatter{}
	report, err := newRunner(h.Operation(models.ProcessFolder), f, nil, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a.csv"}, report.Changed)
	assert.Nil(t, report.Missing)
	assert.Empty(t, report.Unchanged)
	assert.Equal(t, models.StatusSuccess, report.Status)
	assert.Equal(t, "op-test", report.OperationID)
	assert.Same(t, report, f.completed)

	rendered := f.rendered()
	require.Len(t, rendered, 6)
	assert.Equal(t, "--- "+filepath.Join(h.oldDir, "a.csv"), rendered[0])
	assert.Equal(t, "+++ "+filepath.Join(h.newDir, "a.csv"), rendered[1])
	assert.Equal(t, []string{"@@ -1,2 +1,2 @@", " x,y", "-1,2", "+1,3"}, rendered[2:])
}

func TestRun_MissingFile(t *testing.T) {
	h := NewTestHelper(t)
	for _, name := range []string{"a.csv", "b.csv", "c.csv"} {
		h.CreateOldFile(name, name)
	}
	h.CreateNewFile("a.csv", "a.csv")
	h.CreateNewFile("b.csv", "b.csv")

	f := &recordingFormatter{}
	report, err := newRunner(h.Operation(models.ProcessFolder), f, nil, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, report.Changed)
	assert.Equal(t, []string{"c.csv"}, report.Missing)
	assert.Equal(t, []string{"a.csv", "b.csv"}, report.Unchanged)
	assert.Equal(t, []string{"unchanged:a.csv", "unchanged:b.csv"}, f.events)
	assert.Empty(t, f.lines)
}

func TestRun_ExtraNewFilesIgnored(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateOldFile("a.csv", "1\n")
	h.CreateNewFile("a.csv", "1\n")
	h.CreateNewFile("extra.csv", "2\n")

	report, err := newRunner(h.Operation(models.ProcessFolder), &recordingFormatter{}, nil, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, report.Missing)
	assert.Empty(t, report.Changed)
}

func TestRun_ChangedOrderFollowsOldListing(t *testing.T) {
	h := NewTestHelper(t)
	for _, name := range []string{"c.csv", "a.csv", "b.csv"} {
		h.CreateOldFile(name, "old\n")
		h.CreateNewFile(name, "new\n")
	}

	f := &recordingFormatter{}
	report, err := newRunner(h.Operation(models.ProcessFolder), f, nil, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv", "b.csv", "c.csv"}, report.Changed)
}

func TestRun_CleanDropsContext(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateOldFile("a.csv", "h\n1\n2\n3\n4\n")
	h.CreateNewFile("a.csv", "h\n1\nTWO\n3\n4\n")

	full := &recordingFormatter{}
	_, err := newRunner(h.Operation(models.ProcessFolder), full, nil, nil).Run(context.Background())
	require.NoError(t, err)

	op := h.Operation(models.ProcessFolder)
	op.Clean = true
	clean := &recordingFormatter{}
	_, err = newRunner(op, clean, nil, nil).Run(context.Background())
	require.NoError(t, err)

	var expected []diff.Line
	for _, l := range full.lines {
		if l.Kind != diff.KindContext {
			expected = append(expected, l)
		}
	}
	assert.Equal(t, expected, clean.lines)
	assert.Less(t, len(clean.lines), len(full.lines))
}

func TestRun_InvalidUTF8Tolerated(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateOldFile("a.csv", "caf\xff\n1\n")
	h.CreateNewFile("a.csv", "caf\xfe\n2\n")

	f := &recordingFormatter{}
	report, err := newRunner(h.Operation(models.ProcessFolder), f, nil, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv"}, report.Changed)
	assert.Contains(t, f.rendered(), " caf")
}

func TestRun_ExcludePatterns(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateOldFile("a.csv", "1\n")
	h.CreateNewFile("a.csv", "1\n")
	h.CreateOldFile("~$a.csv", "lock")
	h.CreateOldFile("notes.bak", "x")

	op := h.Operation(models.ProcessFolder)
	op.ExcludePatterns = []string{"~$*", "*.bak"}

	report, err := newRunner(op, &recordingFormatter{}, nil, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, report.Missing)
	assert.Equal(t, []string{"a.csv"}, report.Unchanged)
}

func TestRun_Visual(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateOldFile("a.csv", "1\n")
	h.CreateNewFile("a.csv", "2\n")
	h.CreateOldFile("b.csv", "same\n")
	h.CreateNewFile("b.csv", "same\n")

	op := h.Operation(models.ProcessFolder)
	op.Visual = true
	op.VisualTool = "fake"

	t.Run("LaunchesForChangedOnly", func(t *testing.T) {
		launcher := &recordingLauncher{}
		f := &recordingFormatter{}
		report, err := newRunner(op, f, nil, launcher).Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, []string{"a.csv"}, report.Changed)
		require.Len(t, launcher.pairs, 1)
		assert.Equal(t, filepath.Join(h.oldDir, "a.csv"), launcher.pairs[0][0])
		assert.Equal(t, filepath.Join(h.newDir, "a.csv"), launcher.pairs[0][1])
		assert.Empty(t, f.lines, "visual mode prints no textual diff")
	})

	t.Run("MissingToolIsFatal", func(t *testing.T) {
		f := &recordingFormatter{}
		launcher := visual.NewLauncher("sheetdiff-no-such-tool")
		report, err := newRunner(op, f, nil, launcher).Run(context.Background())
		require.Error(t, err)
		assert.Nil(t, report)
		assert.Nil(t, f.completed)

		var toolErr *visual.ToolError
		assert.True(t, errors.As(err, &toolErr))
	})
}

func TestRun_IOErrors(t *testing.T) {
	t.Run("MissingOldFolder", func(t *testing.T) {
		h := NewTestHelper(t)
		op := h.Operation(models.ProcessFolder)
		op.OldPath = filepath.Join(h.oldDir, "absent")

		f := &recordingFormatter{}
		report, err := newRunner(op, f, nil, nil).Run(context.Background())
		require.Error(t, err)
		assert.Nil(t, report)
		assert.Nil(t, f.completed)
	})

	t.Run("NewPathIsFile", func(t *testing.T) {
		h := NewTestHelper(t)
		h.CreateOldFile("a.csv", "1\n")
		op := h.Operation(models.ProcessFolder)
		op.NewPath = filepath.Join(h.oldDir, "a.csv")

		_, err := newRunner(op, &recordingFormatter{}, nil, nil).Run(context.Background())
		assert.Error(t, err)
	})

	t.Run("InvalidProcess", func(t *testing.T) {
		h := NewTestHelper(t)
		_, err := newRunner(h.Operation("sheet"), &recordingFormatter{}, nil, nil).Run(context.Background())

		var ve *models.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "Process", ve.Field)
	})
}

func TestRun_WorkbooksWithStubConverter(t *testing.T) {
	conv := &stubConverter{
		t: t,
		sources: map[string]map[string]string{
			"old.xlsx": {"Summary.csv": "x,y\n1,2\n", "Data.csv": "id\n1\n"},
			"new.xlsx": {"Summary.csv": "x,y\n1,2\n", "Data.csv": "id\n2\n"},
		},
	}

	op := &models.CompareOperation{
		ID: "op-wb", OldPath: "old.xlsx", NewPath: "new.xlsx",
		Process: models.ProcessFile, ContextLines: 3, BufferSize: 4096,
	}
	f := &recordingFormatter{}
	report, err := newRunner(op, f, conv, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Data.csv"}, report.Changed)
	assert.Equal(t, []string{"Summary.csv"}, report.Unchanged)
	assert.Nil(t, report.Missing)
	assert.Equal(t, "old.xlsx", report.OldPath)
	assert.Equal(t, []string{"converting:old.xlsx", "converting:new.xlsx", "changed:Data.csv", "unchanged:Summary.csv"}, f.events)

	require.Len(t, conv.created, 2)
	conv.assertRemoved()
}

func TestRun_WorkbookCleanupOnFailure(t *testing.T) {
	t.Run("SecondConversionFails", func(t *testing.T) {
		conv := &stubConverter{
			t:       t,
			sources: map[string]map[string]string{"old.xlsx": {"a.csv": "1\n"}},
			fail:    map[string]error{"new.xlsx": errors.New("corrupt workbook")},
		}
		op := &models.CompareOperation{OldPath: "old.xlsx", NewPath: "new.xlsx", Process: models.ProcessFile}

		_, err := newRunner(op, &recordingFormatter{}, conv, nil).Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "corrupt workbook")

		require.Len(t, conv.created, 1)
		conv.assertRemoved()
	})

	t.Run("ToolMissingDuringComparison", func(t *testing.T) {
		conv := &stubConverter{
			t: t,
			sources: map[string]map[string]string{
				"old.xlsx": {"a.csv": "1\n"},
				"new.xlsx": {"a.csv": "2\n"},
			},
		}
		op := &models.CompareOperation{
			OldPath: "old.xlsx", NewPath: "new.xlsx", Process: models.ProcessFile,
			Visual: true, VisualTool: "sheetdiff-no-such-tool",
		}

		_, err := newRunner(op, &recordingFormatter{}, conv, visual.NewLauncher(op.VisualTool)).Run(context.Background())
		require.Error(t, err)

		require.Len(t, conv.created, 2)
		conv.assertRemoved()
	})
}

func writeWorkbook(t *testing.T, path string, sheets map[string][][]interface{}, order []string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

func TestRun_RealWorkbooks(t *testing.T) {
	dir := t.TempDir()
	oldBook := filepath.Join(dir, "old.xlsx")
	newBook := filepath.Join(dir, "new.xlsx")
	order := []string{"Prices", "Stock"}

	writeWorkbook(t, oldBook, map[string][][]interface{}{
		"Prices": {{"item", "price"}, {"apple", 1}},
		"Stock":  {{"item", "qty"}, {"apple", 10}},
	}, order)
	writeWorkbook(t, newBook, map[string][][]interface{}{
		"Prices": {{"item", "price"}, {"apple", 2}},
		"Stock":  {{"item", "qty"}, {"apple", 10}},
	}, order)

	scratchRoot := t.TempDir()
	conv := workbook.NewExcelConverter(nil, logging.NewNullLogger())
	conv.TempDir = scratchRoot

	op := &models.CompareOperation{
		ID: "op-real", OldPath: oldBook, NewPath: newBook,
		Process: models.ProcessFile, ContextLines: 3, BufferSize: 4096,
	}
	f := &recordingFormatter{}
	report, err := newRunner(op, f, conv, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Prices.csv"}, report.Changed)
	assert.Equal(t, []string{"Stock.csv"}, report.Unchanged)
	assert.Contains(t, f.rendered(), "-apple,1")
	assert.Contains(t, f.rendered(), "+apple,2")

	entries, err := os.ReadDir(scratchRoot)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch directories should be removed")
}

func TestShouldExclude(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		want     bool
	}{
		{"a.csv", nil, false},
		{"a.csv", []string{"*.csv"}, true},
		{"~$book.csv", []string{"~$*"}, true},
		{".~lock.book.xlsx#", []string{".~lock.*#"}, true},
		{"a.csv", []string{"", "*.bak"}, false},
		{"a.csv", []string{"[bad"}, false},
		{"Data.csv", []string{"{Data,Summary}.csv"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+strings.Join(tt.patterns, ","), func(t *testing.T) {
			assert.Equal(t, tt.want, shouldExclude(tt.name, tt.patterns))
		})
	}
}
