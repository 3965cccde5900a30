package tests

/*
FEATURE: Reviews
DOMAIN: Feedback & Staff Responses

ACCEPTANCE CRITERIA:
===================

AC-REV-001: Create Review
  GIVEN an optional client and activity reference
  WHEN a visitor submits a review with type, title and message
  THEN the review is created pending and hidden from the public listing

AC-REV-002: Create Review - Broken Reference
  GIVEN a review referencing a missing activity
  WHEN the review is submitted
  THEN the request is rejected as not found

AC-REV-003: Respond to Review
  GIVEN a pending review
  WHEN staff responds
  THEN the review moves to answered and records the responder

AC-REV-004: Respond to Review - AI Draft
  GIVEN a pending review and a drafter chain
  WHEN staff responds asking for a draft
  THEN the drafted text is persisted as the response

AC-REV-005: Archive Review
  GIVEN a pending review
  WHEN staff archives it
  THEN the review can no longer be answered

AC-REV-006: Public Listing
  GIVEN answered reviews with mixed visibility
  WHEN the public listing is requested
  THEN only reviews marked public are returned

AC-REV-007: Sentiment Summary
  GIVEN reviews with ratings
  WHEN staff requests the sentiment summary
  THEN each review is classified
*/

import (
	"context"
	"testing"

	"github.com/recanto/api/internal/model"
	"github.com/recanto/api/internal/repository"
	"github.com/recanto/api/internal/service"
	"github.com/recanto/api/internal/testing/fixtures"
	"github.com/recanto/api/internal/testing/helpers"
	"github.com/recanto/api/internal/testing/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReviewService(tdb *testdb.TestDB) *service.ReviewService {
	return service.NewReviewService(service.ReviewServiceConfig{
		Repo:       repository.NewReviewRepository(tdb.DB),
		Clients:    repository.NewClientRepository(tdb.DB),
		Activities: repository.NewActivityRepository(tdb.DB),
		Drafters:   []service.ResponseDrafter{service.TemplateDrafter{}},
	})
}

func TestReview_Create(t *testing.T) {
	// AC-REV-001: Create Review
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newReviewService(tdb)
	ctx := context.Background()

	client := f.CreateClient(t)

	review, err := svc.Create(ctx, &model.CreateReviewRequest{
		ClientID: &client.ID,
		Type:     model.ReviewTypePraise,
		Title:    "Aulas excelentes",
		Message:  "Minha filha adora as aulas de natação.",
		Rating:   helpers.IntPtr(5),
	})
	require.NoError(t, err)
	require.NotNil(t, review)
	assert.NotEmpty(t, review.ID)
	assert.Equal(t, model.ReviewStatusPending, review.Status)
	assert.False(t, review.Public)

	helpers.AssertRecordExists(t, tdb.DB, "review", review.ID)
}

func TestReview_Create_BrokenReference(t *testing.T) {
	// AC-REV-002: Create Review - Broken Reference
	tdb := testdb.New(t)
	defer tdb.Close()

	svc := newReviewService(tdb)
	ctx := context.Background()

	missing := "activity:nao_existe"
	_, err := svc.Create(ctx, &model.CreateReviewRequest{
		ActivityID: &missing,
		Type:       model.ReviewTypeCriticism,
		Title:      "Sem retorno",
		Message:    "Nunca recebi resposta sobre a turma.",
	})
	assert.ErrorIs(t, err, service.ErrActivityNotFound)
}

func TestReview_Respond(t *testing.T) {
	// AC-REV-003: Respond to Review
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newReviewService(tdb)
	ctx := context.Background()

	review := f.CreateReview(t)

	answered, err := svc.Respond(ctx, review.ID, "client:staff1", &model.RespondReviewRequest{
		Response: helpers.StringPtr("Obrigado pelo carinho, esperamos vocês na próxima temporada."),
	})
	require.NoError(t, err)
	require.NotNil(t, answered)
	assert.Equal(t, model.ReviewStatusAnswered, answered.Status)
	require.NotNil(t, answered.Response)
	assert.Contains(t, *answered.Response, "Obrigado")
	require.NotNil(t, answered.RespondedBy)
	assert.Equal(t, "client:staff1", *answered.RespondedBy)
	assert.NotNil(t, answered.RespondedAt)
}

func TestReview_Respond_AIDraft(t *testing.T) {
	// AC-REV-004: Respond to Review - AI Draft
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newReviewService(tdb)
	ctx := context.Background()

	review := f.CreateReview(t, func(o *fixtures.ReviewOpts) {
		o.Type = model.ReviewTypeSuggestion
	})

	// Preview first
	draft, err := svc.DraftResponse(ctx, review.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, draft)

	answered, err := svc.Respond(ctx, review.ID, "client:staff1", &model.RespondReviewRequest{
		UseAiDraft: true,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReviewStatusAnswered, answered.Status)
	require.NotNil(t, answered.Response)
	assert.Equal(t, draft, *answered.Response)
}

func TestReview_Archive(t *testing.T) {
	// AC-REV-005: Archive Review
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newReviewService(tdb)
	ctx := context.Background()

	review := f.CreateReview(t)

	archived, err := svc.Archive(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReviewStatusArchived, archived.Status)

	_, err = svc.Respond(ctx, review.ID, "client:staff1", &model.RespondReviewRequest{
		Response: helpers.StringPtr("tarde demais"),
	})
	assert.ErrorIs(t, err, service.ErrReviewArchived)
}

func TestReview_PublicListing(t *testing.T) {
	// AC-REV-006: Public Listing
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newReviewService(tdb)
	ctx := context.Background()

	visible := f.CreateAnsweredReview(t)
	f.CreateAnsweredReview(t, func(o *fixtures.ReviewOpts) {
		o.Public = false
	})
	f.CreateReview(t) // pending, never public

	reviews, total, err := svc.ListPublic(ctx, nil, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, reviews, 1)
	assert.Equal(t, visible.ID, reviews[0].ID)
	assert.True(t, reviews[0].Public)
}

func TestReview_Visibility(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newReviewService(tdb)
	ctx := context.Background()

	review := f.CreateAnsweredReview(t)

	hidden, err := svc.SetVisibility(ctx, review.ID, false)
	require.NoError(t, err)
	assert.False(t, hidden.Public)

	_, total, err := svc.ListPublic(ctx, nil, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestReview_SentimentSummary(t *testing.T) {
	// AC-REV-007: Sentiment Summary
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newReviewService(tdb)
	ctx := context.Background()

	f.CreateReview(t, func(o *fixtures.ReviewOpts) {
		o.Rating = helpers.IntPtr(5)
	})
	f.CreateReview(t, func(o *fixtures.ReviewOpts) {
		o.Type = model.ReviewTypeCriticism
		o.Rating = helpers.IntPtr(1)
	})

	entries, err := svc.SentimentSummary(ctx, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.NotEmpty(t, e.ID)
		assert.NotEmpty(t, e.Sentiment)
	}
}
