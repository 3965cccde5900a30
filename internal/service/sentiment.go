package service

import (
	"strings"

	"github.com/recanto/api/internal/model"
)

// Keyword lists for the sentiment override. Accented and plain forms
// are both listed since visitors type either.
var (
	positiveKeywords = []string{
		"excelente", "ótimo", "otimo", "ótima", "otima",
		"maravilhoso", "maravilhosa", "adorei", "amei",
		"recomendo", "perfeito", "perfeita", "incrível", "incrivel",
		"parabéns", "parabens",
	}
	negativeKeywords = []string{
		"péssimo", "pessimo", "péssima", "pessima",
		"horrível", "horrivel", "terrível", "terrivel",
		"ruim", "decepcionante", "decepção", "decepcao",
		"nunca mais", "reclamação", "reclamacao", "absurdo",
	}
)

// SummarizeSentiment classifies a single review. The rating drives the
// baseline (4 and 5 positive, 1 and 2 negative, 3 or absent neutral);
// a keyword hit in the title or message overrides it only when a
// single class matches. When both classes appear the keywords cancel
// out and the rating baseline stands.
func SummarizeSentiment(review *model.Review) string {
	text := strings.ToLower(review.Title + " " + review.Message)

	positive := containsAny(text, positiveKeywords)
	negative := containsAny(text, negativeKeywords)
	switch {
	case negative && !positive:
		return model.SentimentNegative
	case positive && !negative:
		return model.SentimentPositive
	}

	if review.Rating != nil {
		switch {
		case *review.Rating >= 4:
			return model.SentimentPositive
		case *review.Rating <= 2:
			return model.SentimentNegative
		}
	}
	return model.SentimentNeutral
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
