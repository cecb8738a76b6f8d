package usecase

import (
	"fmt"
	"math"

	"github.com/dropsync/catalog/internal/domain"
)

const (
	maxReviews       = 100
	maxReviewContent = 5000
	anonymousAuthor  = "Anonymous"
	defaultRating    = 5.0
)

// CleanReviews keeps reviews that carry text and maps them to the unified shape, at most 100
func CleanReviews(value any) []domain.Review {
	reviews := make([]domain.Review, 0)

	for i, entry := range toEntries(value) {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		content, ok := firstTruthy(m, "content", "text", "body")
		if !ok {
			continue
		}

		reviews = append(reviews, mapReview(m, stringify(content), i))
		if len(reviews) == maxReviews {
			break
		}
	}

	return reviews
}

func mapReview(m map[string]any, content string, index int) domain.Review {
	review := domain.Review{
		ID:       fmt.Sprintf("review_%d", index),
		Author:   anonymousAuthor,
		Rating:   defaultRating,
		Content:  truncateRunes(content, maxReviewContent),
		Date:     optionalString(m, "date", "created_at", "createdAt"),
		Verified: m["verified"] != false,
		Images:   CleanImages(firstValue(m, "images", "photos")),
		Country:  optionalString(m, "country", "countryCode"),
	}

	if id, ok := firstTruthy(m, "id"); ok {
		review.ID = stringify(id)
	}
	if author, ok := firstTruthy(m, "author", "authorName", "reviewer", "user_name"); ok {
		review.Author = stringify(author)
	}

	if raw, ok := firstPresent(m, "rating", "stars", "score"); ok {
		if rating, ok := ParseLocaleNumber(raw); ok {
			review.Rating = math.Min(math.Max(rating, 0), 5)
		}
	}

	if raw, ok := firstPresent(m, "helpful_count", "helpfulCount", "likes"); ok {
		if helpful, ok := ParseLocaleNumber(raw); ok && helpful > 0 {
			review.HelpfulCount = int(math.Floor(helpful))
		}
	}

	return review
}

func firstValue(m map[string]any, keys ...string) any {
	v, _ := firstPresent(m, keys...)
	return v
}
