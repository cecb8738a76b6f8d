package usecase

import (
	"strings"

	"github.com/dropsync/catalog/internal/domain"
)

const (
	maxImages = 50
	maxVideos = 10
)

// toEntries accepts a list or a single value; nil yields no entries
func toEntries(value any) []any {
	if value == nil {
		return nil
	}
	if list, ok := asList(value); ok {
		return list
	}
	return []any{value}
}

// CleanImages returns deduplicated absolute image URLs in first-seen order, at most 50.
// Entries may be URL strings or objects exposing src, url or image.
func CleanImages(value any) []string {
	images := make([]string, 0)
	seen := make(map[string]struct{})

	for _, entry := range toEntries(value) {
		raw, ok := imageSource(entry)
		if !ok {
			continue
		}

		imageURL, ok := normalizeImageURL(raw)
		if !ok {
			continue
		}

		if _, dup := seen[imageURL]; dup {
			continue
		}
		seen[imageURL] = struct{}{}
		images = append(images, imageURL)

		if len(images) == maxImages {
			break
		}
	}

	return images
}

func imageSource(entry any) (string, bool) {
	switch v := entry.(type) {
	case string:
		return v, true
	case map[string]any:
		src, ok := firstTruthy(v, "src", "url", "image")
		if !ok {
			return "", false
		}
		s, ok := src.(string)
		return s, ok
	default:
		return "", false
	}
}

// normalizeImageURL upgrades protocol-relative URLs and rejects anything that is not http(s)
func normalizeImageURL(raw string) (string, bool) {
	u := strings.TrimSpace(raw)
	if strings.HasPrefix(u, "//") {
		u = "https:" + u
	}
	if !strings.HasPrefix(u, "http") {
		return "", false
	}
	return u, true
}

// CleanVideos returns video entries with a resolvable URL, at most 10
func CleanVideos(value any) []domain.Video {
	videos := make([]domain.Video, 0)

	for _, entry := range toEntries(value) {
		video, ok := toVideo(entry)
		if !ok {
			continue
		}
		videos = append(videos, video)

		if len(videos) == maxVideos {
			break
		}
	}

	return videos
}

func toVideo(entry any) (domain.Video, bool) {
	switch v := entry.(type) {
	case string:
		u := strings.TrimSpace(v)
		if u == "" {
			return domain.Video{}, false
		}
		return domain.Video{URL: u, Type: "video"}, true
	case map[string]any:
		src, ok := firstTruthy(v, "url", "src", "video_url")
		if !ok {
			return domain.Video{}, false
		}
		u := strings.TrimSpace(stringify(src))
		if u == "" {
			return domain.Video{}, false
		}

		video := domain.Video{URL: u, Type: "video"}
		if t, ok := firstTruthy(v, "type"); ok {
			video.Type = stringify(t)
		}
		if thumb, ok := firstTruthy(v, "thumbnail", "poster"); ok {
			video.Thumbnail = stringify(thumb)
		}
		return video, true
	default:
		return domain.Video{}, false
	}
}
