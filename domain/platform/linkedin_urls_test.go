package platform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"imospy/domain/platform"
)

func TestLinkedInURLs(t *testing.T) {
	tests := []struct {
		in, profile, company string
	}{
		{"satyanadella", "https://www.linkedin.com/in/satyanadella", "https://www.linkedin.com/company/satyanadella"},
		{"https://www.linkedin.com/in/jane/", "https://www.linkedin.com/in/jane", "https://www.linkedin.com/company/jane"},
		{"www.linkedin.com/company/acme", "https://www.linkedin.com/company/acme", "https://www.linkedin.com/company/acme"},
		{"http://linkedin.com/in/bob", "https://linkedin.com/in/bob", "https://www.linkedin.com/company/bob"},
		{"  acme corp ", "https://www.linkedin.com/in/acme%20corp", "https://www.linkedin.com/company/acme%20corp"},
	}
	for _, tt := range tests {
		profile, company := platform.LinkedInURLs(tt.in)
		assert.Equal(t, tt.profile, profile, tt.in)
		assert.Equal(t, tt.company, company, tt.in)
	}
}
