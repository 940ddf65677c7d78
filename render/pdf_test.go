package render_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propfolio/lease-ledger/render"
)

func TestPDF_ProducesValidDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.NewPDF("Propfolio Lettings").Render(&buf, sampleResult(t)))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output is not a PDF")
	assert.Greater(t, buf.Len(), 1000)
}

func TestPDF_EmptyStatementStillRenders(t *testing.T) {
	result := sampleResult(t)
	result.Table.Rows = nil
	result.Table.Leases = nil

	var buf bytes.Buffer
	require.NoError(t, render.NewPDF("").Render(&buf, result))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
