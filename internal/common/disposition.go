package common

import (
	"fmt"
	"mime"
)

// AttachmentDisposition builds a Content-Disposition header value offering
// name as a download. Non-ASCII names use the RFC 2231 form.
func AttachmentDisposition(name string) string {
	for _, r := range name {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return mime.FormatMediaType("attachment", map[string]string{"filename": name})
		}
	}
	return fmt.Sprintf("attachment; filename=%q", name)
}
