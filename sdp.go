package rtspgo

import (
	"fmt"
	"strings"

	psdp "github.com/pion/sdp/v3"

	"github.com/liuzihua699/rtspgo/base"
)

// resolveControlURL resolves the control URL for a SETUP request from
// an SDP description (RFC 2326 §C.1): it determines a base URL from
// Content-Base (or the play URL), locates the first m=video section
// (falling back to the first m=audio section), and resolves that
// section's a=control value against the base.
func resolveControlURL(body []byte, contentBase string, playURL *base.URL) (*base.URL, error) {
	var sd psdp.SessionDescription
	err := sd.Unmarshal(body)
	if err != nil {
		return nil, fmt.Errorf("invalid SDP body: %w", err)
	}

	baseURL := baseURLFromContentBase(contentBase, playURL)

	md := firstMediaSection(&sd, "video")
	if md == nil {
		md = firstMediaSection(&sd, "audio")
	}
	if md == nil {
		return baseURL, nil
	}

	control, ok := controlAttribute(md)
	if !ok {
		return baseURL, nil
	}

	return resolveAgainstBase(control, baseURL)
}

func baseURLFromContentBase(contentBase string, playURL *base.URL) *base.URL {
	if contentBase == "" {
		return playURL
	}

	trimmed := strings.TrimSuffix(contentBase, "/")
	u, err := base.ParseURL(trimmed)
	if err != nil {
		return playURL
	}
	return u
}

func firstMediaSection(sd *psdp.SessionDescription, mediaType string) *psdp.MediaDescription {
	for _, md := range sd.MediaDescriptions {
		if md.MediaName.Media == mediaType {
			return md
		}
	}
	return nil
}

func controlAttribute(md *psdp.MediaDescription) (string, bool) {
	for _, attr := range md.Attributes {
		if attr.Key == "control" {
			return attr.Value, true
		}
	}
	return "", false
}

// resolveAgainstBase implements the four a=control resolution cases:
// absolute rtsp:// URL, wildcard "*", absolute path, and relative path.
func resolveAgainstBase(control string, baseURL *base.URL) (*base.URL, error) {
	switch {
	case strings.HasPrefix(control, "rtsp://"):
		return parseURLInheritingCredentials(control, baseURL)

	case control == "*":
		return baseURL, nil

	case strings.HasPrefix(control, "/"):
		return parseURLInheritingCredentials(baseURL.SchemeAndAuthority()+control, baseURL)

	default:
		return parseURLInheritingCredentials(baseURL.String()+"/"+control, baseURL)
	}
}

func parseURLInheritingCredentials(raw string, from *base.URL) (*base.URL, error) {
	u, err := base.ParseURL(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid control URL %q: %w", raw, err)
	}
	if u.User == nil {
		u.User = from.User
	}
	return u, nil
}
