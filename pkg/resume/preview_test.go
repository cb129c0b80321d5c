package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewUnsupportedFormat(t *testing.T) {
	_, err := Preview("legacy.doc", []byte("whatever"), 100)
	assert.ErrorIs(t, err, ErrPreviewUnsupported)
}

func TestPreviewRejectsCorruptPDF(t *testing.T) {
	_, err := Preview("broken.pdf", []byte("not a pdf"), 100)
	assert.Error(t, err)
}

func TestPreviewFileWithoutContent(t *testing.T) {
	_, err := PreviewFile(BytesFile("a.doc", "", nil), 10)
	assert.ErrorIs(t, err, ErrPreviewUnsupported)
}

func TestNormalizeWhitespace(t *testing.T) {
	in := "  Jane Doe \t\n\n\n  Data   Analyst \r\n  \n SQL "
	assert.Equal(t, "Jane Doe\nData Analyst\nSQL", normalizeWhitespace(in))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt("short", 10))
	assert.Equal(t, "héllo…", excerpt("héllo world", 5))
	assert.Equal(t, "anything", excerpt("anything", 0))
}

func TestAllowedTypeAndContentType(t *testing.T) {
	require.True(t, AllowedType("x.docx", ""))
	require.True(t, AllowedType("x", "application/msword; charset=binary"))
	require.False(t, AllowedType("x.rtf", "text/rtf"))
	assert.Equal(t, "application/pdf", ContentTypeFor("A.PDF"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("a.txt"))
}
