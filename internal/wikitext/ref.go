// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikitext

import (
	"regexp"
	"strings"

	"github.com/pdiddy/citelink/pkg/types"
)

var bareURLRe = regexp.MustCompile(`https?://\S+`)

// ParseRef summarizes the contents of a single <ref>: the template name,
// the URL a reader should follow, and the access date. Anything that is
// not wrapped in {{...}} is treated as a bare reference when it contains
// a URL.
//
// The archive URL is preferred unless the live URL is present and
// marked live.
func ParseRef(raw string) types.RefInfo {
	var info types.RefInfo
	ref := strings.TrimSpace(raw)

	if !strings.HasPrefix(ref, "{{") || !strings.HasSuffix(ref, "}}") {
		if u := bareURLRe.FindString(ref); u != "" {
			info.IsBareRef = true
			info.URL = u
		}
		return info
	}

	pieces := strings.Split(strings.TrimSuffix(ref, "}}"), "|")
	info.TemplateName = strings.TrimSpace(strings.Replace(pieces[0], "{{", "", 1))

	params := make(map[string]string)
	for _, piece := range pieces[1:] {
		eq := strings.IndexByte(piece, '=')
		if eq < 0 {
			continue
		}
		params[strings.TrimSpace(piece[:eq])] = strings.TrimSpace(piece[eq+1:])
	}

	status := params["url_status"]
	if status == "" {
		status = params["url-status"]
	}
	status = strings.ToLower(status)

	info.URL = params["url"]
	info.AccessDate = params["access-date"]
	if archive := params["archive-url"]; archive != "" {
		if status != "live" || info.URL == "" {
			info.URL = archive
		}
	}
	return info
}
