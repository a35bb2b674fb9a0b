package platform

import (
	"net/url"
	"strings"
)

// LinkedInURLs derives the profile and company URLs tried for a LinkedIn
// identifier, which may be a bare slug or a full URL.
func LinkedInURLs(identifier string) (profileURL, companyURL string) {
	id := strings.TrimRight(strings.TrimSpace(identifier), "/")
	profileURL = id
	if !strings.HasPrefix(profileURL, "https://") {
		if strings.Contains(profileURL, "linkedin.com") {
			profileURL = "https://" + strings.TrimPrefix(strings.TrimPrefix(profileURL, "http://"), "https://")
		} else {
			profileURL = "https://www.linkedin.com/in/" + url.PathEscape(profileURL)
		}
	}
	if strings.Contains(profileURL, "/company/") {
		return profileURL, profileURL
	}
	segments := strings.Split(profileURL, "/")
	slug := ""
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			slug = segments[i]
			break
		}
	}
	return profileURL, "https://www.linkedin.com/company/" + slug
}
