package useragent

import (
	"net/http"
	"strings"
)

var browsers = []struct {
	name     string
	marker   string
	excludes string
}{
	{"Edge", "Edg/", ""},
	{"Firefox", "Firefox/", ""},
	{"Chrome", "Chrome/", "Edg"},
	{"Safari", "Safari/", "Chrome"},
}

var systems = []struct {
	name   string
	marker string
}{
	{"Android", "Android"},
	{"iOS", "iPhone"},
	{"iOS", "iPad"},
	{"Windows", "Windows"},
	{"macOS", "Mac OS X"},
	{"Linux", "Linux"},
}

// ExtractDeviceInfo summarises the User-Agent as "Browser major on OS" for
// connection logs.
func ExtractDeviceInfo(r *http.Request) string {
	ua := r.Header.Get("User-Agent")
	if ua == "" {
		return "unknown"
	}

	browser, version := "Unknown Browser", ""
	for _, b := range browsers {
		idx := strings.Index(ua, b.marker)
		if idx == -1 || (b.excludes != "" && strings.Contains(ua, b.excludes)) {
			continue
		}
		browser = b.name
		version = majorVersion(ua[idx+len(b.marker):])
		break
	}

	os := "Unknown OS"
	for _, s := range systems {
		if strings.Contains(ua, s.marker) {
			os = s.name
			break
		}
	}

	if version != "" {
		return browser + " " + version + " on " + os
	}
	return browser + " on " + os
}

func majorVersion(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

// ExtractIPAddress returns the client address, honouring proxy headers.
func ExtractIPAddress(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
