package parts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecs-refurb/shoptrack/internal/domain/model"
	"github.com/ecs-refurb/shoptrack/internal/fieldforms"
)

func newTestDict() *fieldforms.Dictionary {
	return fieldforms.NewDictionary(fieldforms.DefaultRegistry())
}

func TestForVersionSelectsStrategy(t *testing.T) {
	t.Parallel()

	dict := newTestDict()

	rev1 := fieldforms.FormVersion{FormID: "5201467", Type: model.FormService, Revision: 1}
	assert.IsType(t, &PositionalGrouper{}, ForVersion(rev1, dict))

	rev2 := fieldforms.FormVersion{FormID: "5483930", Type: model.FormService, Revision: 2}
	assert.IsType(t, &SerialGrouper{}, ForVersion(rev2, dict))

	pickup := fieldforms.FormVersion{FormID: "5519208", Type: model.FormPickup, Revision: 2}
	assert.IsType(t, &SerialGrouper{}, ForVersion(pickup, dict))
}

func TestSerialGrouperTwoParts(t *testing.T) {
	t.Parallel()

	g := NewSerialGrouper(newTestDict())
	responses := []model.FieldResponse{
		// Ungrouped title rows seed the records in submission order.
		{EntryID: 410, Value: "01.01012025.01"},
		{EntryID: 410, Value: "01.01012025.02"},
		// Grouped attribute rows attach by serial group key.
		{EntryID: 411, Value: "Downpipe", GroupKey: "01.01012025.01"},
		{EntryID: 412, Value: "Clean & Test", GroupKey: "01.01012025.01"},
		{EntryID: 421, Value: "PASS", GroupKey: "01.01012025.01"},
		{EntryID: 411, Value: "Muffler", GroupKey: "01.01012025.02"},
		{EntryID: 422, Value: "1", GroupKey: "01.01012025.02"},
		// Serial column repeated inside the group adds nothing.
		{EntryID: 410, Value: "01.01012025.02", GroupKey: "01.01012025.02"},
	}

	records := g.Group("5483930", responses)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "01.01012025.01", first.SerialNumber)
	assert.Equal(t, "Downpipe", first.PartName)
	assert.False(t, first.NameOnly)
	require.NotNil(t, first.Fields.Process)
	assert.Equal(t, "Clean & Test", *first.Fields.Process)
	require.NotNil(t, first.Fields.PassFail)
	assert.Equal(t, "PASS", *first.Fields.PassFail)
	assert.Nil(t, first.Fields.Repaired)

	second := records[1]
	assert.Equal(t, "01.01012025.02", second.SerialNumber)
	assert.Equal(t, "Muffler", second.PartName)
	require.NotNil(t, second.Fields.Repaired)
	assert.True(t, *second.Fields.Repaired)
	assert.Nil(t, second.Fields.Process)
}

func TestSerialGrouperNameOnlyFallback(t *testing.T) {
	t.Parallel()

	g := NewSerialGrouper(newTestDict())
	responses := []model.FieldResponse{
		// Attribute rows with no group key and no serial anywhere.
		{EntryID: 411, Value: "Bracket"},
		{EntryID: 424, Value: "re-welded mount"},
		{EntryID: 411, Value: "Bracket"},
	}

	records := g.Group("5483930", responses)
	require.NotEmpty(t, records)

	var named *Record
	for i := range records {
		if records[i].PartName == "Bracket" {
			named = &records[i]
		}
	}
	require.NotNil(t, named)
	assert.True(t, named.NameOnly)
	assert.Empty(t, named.SerialNumber)
}

func TestSerialGrouperIgnoresUnknownEntries(t *testing.T) {
	t.Parallel()

	g := NewSerialGrouper(newTestDict())
	responses := []model.FieldResponse{
		{EntryID: 410, Value: "01.01012025.01"},
		{EntryID: 99999, Value: "noise", GroupKey: "01.01012025.01"},
		{EntryID: 99999, Value: "ungrouped noise"},
	}

	records := g.Group("5483930", responses)
	require.Len(t, records, 1)
	assert.Equal(t, "01.01012025.01", records[0].SerialNumber)
	assert.True(t, records[0].Fields.Empty())
}

func TestPositionalGrouperSplitsCollidingGroup(t *testing.T) {
	t.Parallel()

	g := NewPositionalGrouper(newTestDict())
	// Revision 1 keyed loop groups by part name, so two same-named parts
	// share one key. Each serial response anchors one part; surrounding
	// attributes attach to the nearest anchor.
	responses := []model.FieldResponse{
		{EntryID: 312, Value: "Clean", GroupKey: "Downpipe"},
		{EntryID: 310, Value: "01.01012025.01", GroupKey: "Downpipe"},
		{EntryID: 321, Value: "PASS", GroupKey: "Downpipe"},
		{EntryID: 312, Value: "Weld", GroupKey: "Downpipe"},
		{EntryID: 310, Value: "01.01012025.02", GroupKey: "Downpipe"},
		{EntryID: 321, Value: "FAIL", GroupKey: "Downpipe"},
	}

	records := g.Group("5201467", responses)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "01.01012025.01", first.SerialNumber)
	assert.Equal(t, "Downpipe", first.PartName)
	require.NotNil(t, first.Fields.Process)
	assert.Equal(t, "Clean", *first.Fields.Process)
	require.NotNil(t, first.Fields.PassFail)
	assert.Equal(t, "PASS", *first.Fields.PassFail)

	second := records[1]
	assert.Equal(t, "01.01012025.02", second.SerialNumber)
	require.NotNil(t, second.Fields.Process)
	assert.Equal(t, "Weld", *second.Fields.Process)
	require.NotNil(t, second.Fields.PassFail)
	assert.Equal(t, "FAIL", *second.Fields.PassFail)
}

func TestPositionalGrouperSingleAnchor(t *testing.T) {
	t.Parallel()

	g := NewPositionalGrouper(newTestDict())
	responses := []model.FieldResponse{
		{EntryID: 310, Value: " 01.01012025.07 ", GroupKey: "Muffler"},
		{EntryID: 312, Value: "Polish", GroupKey: "Muffler"},
		{EntryID: 323, Value: "cracked weld", GroupKey: "Muffler"},
	}

	records := g.Group("5201467", responses)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "01.01012025.07", r.SerialNumber)
	assert.Equal(t, "Muffler", r.PartName)
	assert.False(t, r.NameOnly)
	require.NotNil(t, r.Fields.FailureReason)
	assert.Equal(t, "cracked weld", *r.Fields.FailureReason)
}

func TestPositionalGrouperNoAnchorYieldsNameOnly(t *testing.T) {
	t.Parallel()

	g := NewPositionalGrouper(newTestDict())
	responses := []model.FieldResponse{
		{EntryID: 312, Value: "Clean", GroupKey: "Bracket"},
		{EntryID: 321, Value: "PASS", GroupKey: "Bracket"},
	}

	records := g.Group("5201467", responses)
	require.Len(t, records, 1)
	assert.True(t, records[0].NameOnly)
	assert.Equal(t, "Bracket", records[0].PartName)
	assert.Empty(t, records[0].SerialNumber)
}

func TestPositionalGrouperIgnoresUngroupedRows(t *testing.T) {
	t.Parallel()

	g := NewPositionalGrouper(newTestDict())
	responses := []model.FieldResponse{
		{EntryID: 301, Value: "SJ-00000001"},
		{EntryID: 310, Value: "01.01012025.01", GroupKey: "Downpipe"},
	}

	records := g.Group("5201467", responses)
	require.Len(t, records, 1)
	assert.Equal(t, "01.01012025.01", records[0].SerialNumber)
}
