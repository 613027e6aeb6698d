package mcpserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvmanager/internal/domain"
	"csvmanager/internal/service"
	"csvmanager/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.CSVTable) {
	t.Helper()
	table, err := storage.OpenCSVTable(filepath.Join(t.TempDir(), "data.csv"))
	require.NoError(t, err)
	tables := service.NewTableService(table, &service.MockEmitter{}, nil)
	return New(Deps{Tables: tables}), table
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func decodeView(t *testing.T, res *mcp.CallToolResult) domain.ViewState {
	t.Helper()
	require.False(t, res.IsError, resultText(t, res))
	var state domain.ViewState
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &state))
	return state
}

func TestToolsAddSearchEditDelete(t *testing.T) {
	s, table := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleAddRow(ctx, call(map[string]any{"values": `{"Column1":"a","Column2":"b"}`}))
	require.NoError(t, err)
	state := decodeView(t, res)
	require.Len(t, state.Rows, 1)
	assert.Equal(t, []string{"a", "b", ""}, state.Rows[0].Values)

	_, err = s.handleAddRow(ctx, call(map[string]any{"values": `{"Column1":"x"}`}))
	require.NoError(t, err)

	res, err = s.handleSearchRows(ctx, call(map[string]any{"text": "X"}))
	require.NoError(t, err)
	state = decodeView(t, res)
	require.Len(t, state.Rows, 1)
	handle := state.Rows[0].Handle

	res, err = s.handleEditRow(ctx, call(map[string]any{"handle": handle, "values": `{"Column1":"y"}`}))
	require.NoError(t, err)
	state = decodeView(t, res)
	assert.Equal(t, domain.ViewFull, state.Mode)

	rows, _, err := storage.LoadCSV(table.Path())
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b", ""}, {"y", "", ""}}, rows)

	res, err = s.handleDeleteRow(ctx, call(map[string]any{"handle": state.Rows[0].Handle}))
	require.NoError(t, err)
	state = decodeView(t, res)
	require.Len(t, state.Rows, 1)
	assert.Equal(t, "y", state.Rows[0].Values[0])
}

func TestToolsWarningsAreToolErrors(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleSearchRows(ctx, call(map[string]any{"text": ""}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), domain.ErrEmptyQuery.Error())

	res, err = s.handleDeleteRow(ctx, call(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleFilterRows(ctx, call(map[string]any{"column": "Column1"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleAddRow(ctx, call(map[string]any{"values": `{"Nope":"1"}`}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestToolsBadJSON(t *testing.T) {
	s, _ := newTestServer(t)
	_, err := s.handleAddRow(context.Background(), call(map[string]any{"values": `{"Column1":`}))
	assert.Error(t, err)
}

func TestToolsSortAndFilter(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()
	for _, v := range []string{`{"Column1":"b"}`, `{"Column1":"a"}`, `{"Column1":"c"}`} {
		_, err := s.handleAddRow(ctx, call(map[string]any{"values": v}))
		require.NoError(t, err)
	}

	res, err := s.handleSortRows(ctx, call(map[string]any{"column": "Column1"}))
	require.NoError(t, err)
	state := decodeView(t, res)
	require.Len(t, state.Rows, 3)
	assert.Equal(t, "a", state.Rows[0].Values[0])
	assert.Equal(t, "c", state.Rows[2].Values[0])

	res, err = s.handleFilterRows(ctx, call(map[string]any{"column": "Column1", "text": "B"}))
	require.NoError(t, err)
	state = decodeView(t, res)
	assert.Equal(t, domain.ViewFilter, state.Mode)
	require.Len(t, state.Rows, 1)

	res, err = s.handleFilterRows(ctx, call(map[string]any{"column": "Column1", "text": "zzz"}))
	require.NoError(t, err)
	state = decodeView(t, res)
	assert.Empty(t, state.Rows)
	assert.NotEmpty(t, state.Notice)
}

func TestColumnsResource(t *testing.T) {
	s, _ := newTestServer(t)
	contents, err := s.handleColumnsResource(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	var cols []string
	require.NoError(t, json.Unmarshal([]byte(text.Text), &cols))
	assert.Equal(t, []string(domain.DefaultColumns), cols)
}
