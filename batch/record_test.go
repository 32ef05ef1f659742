package batch_test

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmdang/arrowmap"
	"github.com/vmdang/arrowmap/batch"
)

func eventSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		arrowmap.Field(arrowmap.Int64{}, "id"),
		arrowmap.Field(arrowmap.Nullable[arrowmap.String, string]{}, "name"),
		arrowmap.Field(arrowmap.Nullable[arrowmap.Binary, []byte]{}, "payload"),
		arrowmap.Field(arrowmap.List[arrowmap.String, string]{}, "tags"),
	}, nil)
}

func buildEventRecord(t *testing.T) arrow.Record {
	t.Helper()

	schema := eventSchema()
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()

	ids := b.Field(0).(*array.Int64Builder)
	names := b.Field(1).(*array.StringBuilder)
	payloads := b.Field(2).(*array.BinaryBuilder)
	tags := b.Field(3).(*array.ListBuilder)
	tagValues := tags.ValueBuilder().(*array.StringBuilder)

	ids.Append(1)
	names.Append("created")
	payloads.Append([]byte{0x01, 0x02})
	tags.Append(true)
	tagValues.Append("a")
	tagValues.Append("b")

	ids.Append(2)
	names.AppendNull()
	payloads.AppendNull()
	tags.Append(true)

	return b.NewRecord()
}

func TestValidate(t *testing.T) {
	rec := buildEventRecord(t)
	defer rec.Release()

	require.NoError(t, batch.Validate(rec, eventSchema()))

	other := arrow.NewSchema([]arrow.Field{
		arrowmap.Field(arrowmap.Int64{}, "id"),
	}, nil)
	assert.Error(t, batch.Validate(rec, other))

	renamed := arrow.NewSchema([]arrow.Field{
		arrowmap.Field(arrowmap.Int64{}, "identifier"),
		arrowmap.Field(arrowmap.Nullable[arrowmap.String, string]{}, "name"),
		arrowmap.Field(arrowmap.Nullable[arrowmap.Binary, []byte]{}, "payload"),
		arrowmap.Field(arrowmap.List[arrowmap.String, string]{}, "tags"),
	}, nil)
	assert.Error(t, batch.Validate(rec, renamed))

	assert.Error(t, batch.Validate(nil, eventSchema()))
}

func TestColumn(t *testing.T) {
	rec := buildEventRecord(t)
	defer rec.Release()

	ids, err := batch.Column[int64](arrowmap.Int64{}, rec, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)

	names, err := batch.NamedColumn[*string](arrowmap.Nullable[arrowmap.String, string]{}, rec, "name")
	require.NoError(t, err)
	require.Len(t, names, 2)
	require.NotNil(t, names[0])
	assert.Equal(t, "created", *names[0])
	assert.Nil(t, names[1])

	tags, err := batch.NamedColumn[[]string](arrowmap.List[arrowmap.String, string]{}, rec, "tags")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {}}, tags)

	_, err = batch.Column[int64](arrowmap.Int64{}, rec, 7)
	assert.Error(t, err)

	// Wrong mapping for the column is a mismatch, not a panic.
	_, err = batch.Column[uint32](arrowmap.Uint32{}, rec, 0)
	assert.Error(t, err)
}

func TestRecordJSONRoundTrip(t *testing.T) {
	rec := buildEventRecord(t)
	defer rec.Release()

	data, err := batch.RecordToJSON(rec)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, float64(1), rows[0]["id"])
	assert.Equal(t, "created", rows[0]["name"])
	assert.Nil(t, rows[1]["name"])

	back, err := batch.RecordFromJSON(memory.DefaultAllocator, eventSchema(), data)
	require.NoError(t, err)
	defer back.Release()

	require.NoError(t, batch.Validate(back, eventSchema()))
	assert.Equal(t, int64(2), back.NumRows())

	ids, err := batch.Column[int64](arrowmap.Int64{}, back, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)

	payloads, err := batch.NamedColumn[*[]byte](arrowmap.Nullable[arrowmap.Binary, []byte]{}, back, "payload")
	require.NoError(t, err)
	require.NotNil(t, payloads[0])
	assert.Equal(t, []byte{0x01, 0x02}, *payloads[0])
	assert.Nil(t, payloads[1])
}

func TestRecordJSONLargeVariants(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		arrowmap.Field(arrowmap.LargeString{}, "title"),
		arrowmap.Field(arrowmap.LargeBinary{}, "blob"),
	}, nil)

	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	b.Field(0).(*array.LargeStringBuilder).Append("hello")
	b.Field(1).(*array.BinaryBuilder).Append([]byte{0xde, 0xad})
	rec := b.NewRecord()
	defer rec.Release()

	data, err := batch.RecordToJSON(rec)
	require.NoError(t, err)

	back, err := batch.RecordFromJSON(memory.DefaultAllocator, schema, data)
	require.NoError(t, err)
	defer back.Release()

	titles, err := batch.Column[string](arrowmap.LargeString{}, back, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, titles)

	blobs, err := batch.Column[[]byte](arrowmap.LargeBinary{}, back, 1)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0xde, 0xad}}, blobs)
}

func TestRecordToJSONEmpty(t *testing.T) {
	data, err := batch.RecordToJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
