package export

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/driftdesk/driftdesk-cli/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDrifts() []models.Drift {
	created := models.NewTimestamp(time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC))
	resolved := models.NewTimestamp(time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC))
	return []models.Drift{
		{
			ID: 1, Title: "Disk full", Description: "db-1", Status: models.StatusResolved, Priority: models.PriorityHigh,
			CreatedAt: created, UpdatedAt: resolved, ResolvedAt: &resolved,
			CreatedBy: models.UserRef{Username: "root", FullName: "Root"}, CommentCount: 2,
		},
		{
			ID: 2, Title: "Cert expiry", Status: models.StatusOpen, Priority: models.PriorityLow,
			CreatedAt: created, UpdatedAt: created,
			CreatedBy:  models.UserRef{Username: "bob"},
			AssignedTo: &models.UserRef{Username: "alice", FullName: "Alice"},
		},
	}
}

func readRows(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return rows
}

func TestWrite_RowsAndHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleDrifts()))

	rows := readRows(t, buf.Bytes())
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Comments", rows[0][11])

	assert.Equal(t, []string{"1", "Disk full", "db-1", "resolved", "high", "Unassigned", "Root", "2026-04-01 09:30:00", "2026-04-02 10:00:00", "2026-04-02 10:00:00", "", "2"}, rows[1])
	assert.Equal(t, "Alice", rows[2][5])
	assert.Equal(t, "bob", rows[2][6])
}

func TestWrite_EmptyListHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))

	rows := readRows(t, buf.Bytes())
	require.Len(t, rows, 1)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "drifts.xlsx")
	require.NoError(t, Save(path, sampleDrifts()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(SheetName, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Cert expiry", v)
}

func TestSave_RejectsOtherExtensions(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "drifts.csv"), nil)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
