package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderReceipt(t *testing.T) {
	body := RenderReceipt(Receipt{
		From:    "0xabc",
		To:      "0xdef",
		Amount:  "1.5",
		Keyword: "k",
		Message: "<script>alert(1)</script>",
		TxHash:  "0xbeef",
	})

	assert.Contains(t, body, "0xdef")
	assert.Contains(t, body, "1.5")
	assert.Contains(t, body, "0xbeef")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.False(t, strings.Contains(body, "<script>"))
	assert.Contains(t, body, `width="100%"`)
}
