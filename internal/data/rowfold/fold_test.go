package rowfold

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type joinRow struct {
	PhoneID   int64
	Model     string
	ColorID   *int64
	ColorCode string
}

type phone struct {
	ID     int64
	Model  string
	Colors []string
}

func id(v int64) *int64 { return &v }

var phoneFolder = Folder[joinRow, int64, *phone, int64, string]{
	ParentKey: func(r joinRow) int64 { return r.PhoneID },
	NewParent: func(r joinRow) *phone { return &phone{ID: r.PhoneID, Model: r.Model, Colors: []string{}} },
	ChildKey: func(r joinRow) (int64, bool) {
		if !ValidID(r.ColorID) {
			return 0, false
		}
		return *r.ColorID, true
	},
	NewChild: func(r joinRow) string { return r.ColorCode },
	Attach:   func(p *phone, c string) { p.Colors = append(p.Colors, c) },
}

func TestFoldGroupsColorsPerPhone(t *testing.T) {
	rows := []joinRow{
		{PhoneID: 10, Model: "A", ColorID: id(1), ColorCode: "Black"},
		{PhoneID: 10, Model: "A", ColorID: id(2), ColorCode: "White"},
		{PhoneID: 20, Model: "B"},
	}

	got := phoneFolder.Fold(rows)

	require.Len(t, got, 2)
	require.Equal(t, int64(10), got[0].ID)
	require.ElementsMatch(t, []string{"Black", "White"}, got[0].Colors)
	require.Equal(t, int64(20), got[1].ID)
	require.NotNil(t, got[1].Colors)
	require.Empty(t, got[1].Colors)
}

func TestFoldPreservesFirstSeenOrder(t *testing.T) {
	rows := []joinRow{
		{PhoneID: 3, ColorID: id(1), ColorCode: "Black"},
		{PhoneID: 1, ColorID: id(1), ColorCode: "Black"},
		{PhoneID: 3, ColorID: id(2), ColorCode: "Red"},
		{PhoneID: 2},
	}

	got := phoneFolder.Fold(rows)

	ids := make([]int64, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	require.Equal(t, []int64{3, 1, 2}, ids)
	require.Equal(t, []string{"Black", "Red"}, got[0].Colors)
}

func TestFoldDeduplicatesRepeatedChildren(t *testing.T) {
	rows := []joinRow{
		{PhoneID: 7, ColorID: id(5), ColorCode: "Gold"},
		{PhoneID: 7, ColorID: id(5), ColorCode: "Gold"},
		{PhoneID: 7, ColorID: id(6), ColorCode: "Silver"},
		{PhoneID: 7, ColorID: id(5), ColorCode: "Gold"},
	}

	got := phoneFolder.Fold(rows)

	require.Len(t, got, 1)
	require.Equal(t, []string{"Gold", "Silver"}, got[0].Colors)
}

func TestFoldSentinelChildIDs(t *testing.T) {
	rows := []joinRow{
		{PhoneID: 1, ColorID: id(0)},
		{PhoneID: 1, ColorID: id(-4)},
		{PhoneID: 1, ColorID: nil},
	}

	got := phoneFolder.Fold(rows)

	require.Len(t, got, 1)
	require.Empty(t, got[0].Colors)
}

func TestFoldEmptyInput(t *testing.T) {
	got := phoneFolder.Fold(nil)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestFoldWithoutChildren(t *testing.T) {
	f := Folder[joinRow, int64, *phone, int64, string]{
		ParentKey: phoneFolder.ParentKey,
		NewParent: phoneFolder.NewParent,
	}
	got := f.Fold([]joinRow{{PhoneID: 1, ColorID: id(1)}, {PhoneID: 1}, {PhoneID: 2}})
	require.Len(t, got, 2)
	require.Empty(t, got[0].Colors)
}
