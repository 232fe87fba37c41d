package checkout

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	pkgerrors "github.com/izzah/storefront/pkg/errors"
)

const (
	MessageProofTooLarge  = "File size exceeds 5MB limit."
	MessageProofNotImage  = "Please upload an image file."
	MessageProofReadError = "Failed to read image file."
)

// DefaultMaxProofBytes is the upload ceiling for payment proofs.
const DefaultMaxProofBytes int64 = 5 * 1024 * 1024

// Proof is an accepted payment screenshot, embedded as a data URL.
type Proof struct {
	DataURL string `json:"dataUrl"`
	MIME    string `json:"mime"`
	Size    int64  `json:"size"`
}

// ProofIngestor turns an uploaded image into an embeddable data URL.
type ProofIngestor struct {
	maxBytes int64
}

// NewProofIngestor builds an ingestor. A non-positive limit uses DefaultMaxProofBytes.
func NewProofIngestor(maxBytes int64) *ProofIngestor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxProofBytes
	}
	return &ProofIngestor{maxBytes: maxBytes}
}

// MaxBytes exposes the configured ceiling.
func (p *ProofIngestor) MaxBytes() int64 {
	return p.maxBytes
}

// Ingest reads r. declaredSize, when known (>= 0), is checked before any
// read starts; the stream itself is also capped.
func (p *ProofIngestor) Ingest(r io.Reader, declaredSize int64) (*Proof, error) {
	if declaredSize > p.maxBytes {
		return nil, proofError(p.tooLargeMessage(), nil)
	}
	if r == nil {
		return nil, proofError(MessageProofReadError, fmt.Errorf("no file"))
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, p.maxBytes+1))
	if err != nil {
		return nil, proofError(MessageProofReadError, err)
	}
	if n > p.maxBytes {
		return nil, proofError(p.tooLargeMessage(), nil)
	}
	if n == 0 {
		return nil, proofError(MessageProofReadError, fmt.Errorf("empty file"))
	}

	data := buf.Bytes()
	detected := mimetype.Detect(data)
	mediaType := strings.TrimSpace(strings.SplitN(detected.String(), ";", 2)[0])
	if !strings.HasPrefix(mediaType, "image/") {
		return nil, proofError(MessageProofNotImage, fmt.Errorf("detected %s", mediaType))
	}

	return &Proof{
		DataURL: "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data),
		MIME:    mediaType,
		Size:    n,
	}, nil
}

func (p *ProofIngestor) tooLargeMessage() string {
	return proofTooLargeMessage(p.maxBytes)
}

// ProofTooLarge is the rejection for an upload over maxBytes.
func ProofTooLarge(maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxProofBytes
	}
	return proofError(proofTooLargeMessage(maxBytes), nil)
}

func proofTooLargeMessage(maxBytes int64) string {
	if maxBytes == DefaultMaxProofBytes {
		return MessageProofTooLarge
	}
	return fmt.Sprintf("File size exceeds %dMB limit.", maxBytes/(1024*1024))
}

func proofError(message string, cause error) error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, cause, message).WithField(FieldBankTransferProof, message)
}
