package checkout

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/izzah/storefront/pkg/errors"
)

// 1x1 transparent PNG.
var tinyPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk gone")
}

func proofMessage(t *testing.T, err error) string {
	t.Helper()
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
	details, ok := pkgerrors.As(err).Details().(map[string]any)
	require.True(t, ok)
	fields, ok := details["fields"].(map[string]string)
	require.True(t, ok)
	return fields[FieldBankTransferProof]
}

func TestIngestPNG(t *testing.T) {
	t.Parallel()

	proof, err := NewProofIngestor(0).Ingest(bytes.NewReader(tinyPNG), int64(len(tinyPNG)))
	require.NoError(t, err)
	assert.Equal(t, "image/png", proof.MIME)
	assert.Equal(t, int64(len(tinyPNG)), proof.Size)
	assert.True(t, strings.HasPrefix(proof.DataURL, "data:image/png;base64,iVBORw0KGgo"))
}

func TestIngestRejectsNonImage(t *testing.T) {
	t.Parallel()

	_, err := NewProofIngestor(0).Ingest(strings.NewReader("just some receipt text"), -1)
	assert.Equal(t, MessageProofNotImage, proofMessage(t, err))
}

func TestIngestRejectsDeclaredOversize(t *testing.T) {
	t.Parallel()

	_, err := NewProofIngestor(0).Ingest(failingReader{}, DefaultMaxProofBytes+1)
	assert.Equal(t, MessageProofTooLarge, proofMessage(t, err))
}

func TestIngestRejectsStreamedOversize(t *testing.T) {
	t.Parallel()

	ingestor := NewProofIngestor(2 * 1024 * 1024)
	body := append(append([]byte{}, tinyPNG...), make([]byte, 2*1024*1024)...)
	_, err := ingestor.Ingest(bytes.NewReader(body), -1)
	assert.Equal(t, "File size exceeds 2MB limit.", proofMessage(t, err))
}

func TestIngestReadFailure(t *testing.T) {
	t.Parallel()

	_, err := NewProofIngestor(0).Ingest(failingReader{}, -1)
	assert.Equal(t, MessageProofReadError, proofMessage(t, err))

	_, err = NewProofIngestor(0).Ingest(bytes.NewReader(nil), 0)
	assert.Equal(t, MessageProofReadError, proofMessage(t, err))
}
