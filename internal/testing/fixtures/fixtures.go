// Package fixtures provides test data factories for e2e testing.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories handle database insertion
// and return fully populated models.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	client := f.CreateClient(t)
//	responsible := f.CreateResponsible(t)
//	activity := f.CreateActivity(t, responsible)
//	enrollment := f.CreateEnrollment(t, client, activity)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/recanto/api/internal/database"
	"github.com/recanto/api/internal/model"

	"golang.org/x/crypto/bcrypt"
)

// Factory creates test entities in the database
type Factory struct {
	db database.Database
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{db: db}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ctx returns a context with timeout
func ctx() context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	// Store cancel to prevent leak warning
	_ = cancel
	return c
}

// ============================================================================
// Client Fixtures
// ============================================================================

// ClientOpts customizes client creation
type ClientOpts struct {
	Name      string
	BirthDate time.Time
	Email     string
	Password  string
	Phone     *string
	CEP       *string
	Active    bool
}

// CreateClient creates a client with optional customizations
func (f *Factory) CreateClient(t *testing.T, opts ...func(*ClientOpts)) *model.Client {
	t.Helper()

	o := &ClientOpts{
		Name:      fmt.Sprintf("Cliente %s", randomID()),
		BirthDate: time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC),
		Email:     fmt.Sprintf("cliente_%s@test.local", randomID()),
		Password:  "senha-secreta-123",
		Active:    true,
	}
	for _, fn := range opts {
		fn(o)
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	query := `
		CREATE client CONTENT {
			name: $name,
			birth_date: <datetime> $birth_date,
			email: $email,
			phone: $phone,
			cep: $cep,
			password_hash: $password_hash,
			active: $active,
			created_at: time::now(),
			updated_at: time::now()
		}
	`
	vars := map[string]interface{}{
		"name":          o.Name,
		"birth_date":    o.BirthDate.Format(time.RFC3339),
		"email":         o.Email,
		"phone":         o.Phone,
		"cep":           o.CEP,
		"password_hash": string(hash),
		"active":        o.Active,
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create client: %v", err)
	}

	client := parseClientResult(t, results)
	client.PasswordHash = "" // Don't expose the hash in fixtures
	return client
}

// CreateInactiveClient creates a deactivated client account
func (f *Factory) CreateInactiveClient(t *testing.T) *model.Client {
	return f.CreateClient(t, func(o *ClientOpts) {
		o.Active = false
	})
}

// ============================================================================
// Responsible Fixtures
// ============================================================================

// ResponsibleOpts customizes responsible creation
type ResponsibleOpts struct {
	Name        string
	Matricula   string
	Unit        string
	Specialties []string
}

// CreateResponsible creates an instructor with optional customizations
func (f *Factory) CreateResponsible(t *testing.T, opts ...func(*ResponsibleOpts)) *model.Responsible {
	t.Helper()

	o := &ResponsibleOpts{
		Name:        fmt.Sprintf("Instrutor %s", randomID()),
		Matricula:   fmt.Sprintf("RG-%s", randomID()),
		Unit:        "sede",
		Specialties: []string{"natacao"},
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE responsible CONTENT {
			name: $name,
			matricula: $matricula,
			unit: $unit,
			specialties: $specialties,
			created_at: time::now(),
			updated_at: time::now()
		}
	`
	vars := map[string]interface{}{
		"name":        o.Name,
		"matricula":   o.Matricula,
		"unit":        o.Unit,
		"specialties": o.Specialties,
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create responsible: %v", err)
	}

	return parseResponsibleResult(t, results)
}

// ============================================================================
// Activity Fixtures
// ============================================================================

// ActivityOpts customizes activity creation
type ActivityOpts struct {
	Name     string
	Unit     string
	Capacity int
	Occupied int
	StartsAt time.Time
	EndsAt   time.Time
	Price    float64
	Status   string
}

// WithCapacity sets the activity's seat capacity
func WithCapacity(capacity int) func(*ActivityOpts) {
	return func(o *ActivityOpts) {
		o.Capacity = capacity
	}
}

// CreateActivity creates an activity led by the given responsible
func (f *Factory) CreateActivity(t *testing.T, responsible *model.Responsible, opts ...func(*ActivityOpts)) *model.Activity {
	t.Helper()

	now := time.Now().UTC()
	o := &ActivityOpts{
		Name:     fmt.Sprintf("Atividade %s", randomID()),
		Unit:     responsible.Unit,
		Capacity: 20,
		Occupied: 0,
		StartsAt: now.Add(24 * time.Hour),
		EndsAt:   now.Add(60 * 24 * time.Hour),
		Price:    150.0,
		Status:   model.ActivityStatusActive,
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE activity CONTENT {
			name: $name,
			unit: $unit,
			responsible_id: type::record($responsible_id),
			capacity: $capacity,
			occupied: $occupied,
			starts_at: <datetime> $starts_at,
			ends_at: <datetime> $ends_at,
			price: $price,
			status: $status,
			created_at: time::now(),
			updated_at: time::now()
		}
	`
	vars := map[string]interface{}{
		"name":           o.Name,
		"unit":           o.Unit,
		"responsible_id": responsible.ID,
		"capacity":       o.Capacity,
		"occupied":       o.Occupied,
		"starts_at":      o.StartsAt.Format(time.RFC3339),
		"ends_at":        o.EndsAt.Format(time.RFC3339),
		"price":          o.Price,
		"status":         o.Status,
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create activity: %v", err)
	}

	return parseActivityResult(t, results)
}

// CreateFullActivity creates an activity with every seat taken
func (f *Factory) CreateFullActivity(t *testing.T, responsible *model.Responsible) *model.Activity {
	return f.CreateActivity(t, responsible, func(o *ActivityOpts) {
		o.Capacity = 1
		o.Occupied = 1
	})
}

// CreateEndedActivity creates an activity whose season is already over
func (f *Factory) CreateEndedActivity(t *testing.T, responsible *model.Responsible) *model.Activity {
	now := time.Now().UTC()
	return f.CreateActivity(t, responsible, func(o *ActivityOpts) {
		o.StartsAt = now.Add(-60 * 24 * time.Hour)
		o.EndsAt = now.Add(-24 * time.Hour)
	})
}

// ============================================================================
// Enrollment Fixtures
// ============================================================================

// EnrollmentOpts customizes enrollment creation
type EnrollmentOpts struct {
	Status        string
	PaymentStatus string
	AmountPaid    float64
	Notes         *string
}

// CreateEnrollment creates an enrollment and takes a seat on the activity.
// Canceled enrollments do not hold a seat.
func (f *Factory) CreateEnrollment(t *testing.T, client *model.Client, activity *model.Activity, opts ...func(*EnrollmentOpts)) *model.Enrollment {
	t.Helper()

	o := &EnrollmentOpts{
		Status:        model.EnrollmentStatusPending,
		PaymentStatus: model.PaymentStatusPending,
		AmountPaid:    0,
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE enrollment CONTENT {
			client_id: type::record($client_id),
			activity_id: type::record($activity_id),
			status: $status,
			payment_status: $payment_status,
			amount_paid: $amount_paid,
			notes: $notes,
			created_at: time::now(),
			updated_at: time::now()
		}
	`
	vars := map[string]interface{}{
		"client_id":      client.ID,
		"activity_id":    activity.ID,
		"status":         o.Status,
		"payment_status": o.PaymentStatus,
		"amount_paid":    o.AmountPaid,
		"notes":          o.Notes,
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create enrollment: %v", err)
	}

	if o.Status != model.EnrollmentStatusCanceled {
		reserve := `UPDATE type::record($activity_id) SET occupied += 1, updated_at = time::now()`
		if _, err := f.db.Query(ctx(), reserve, map[string]interface{}{"activity_id": activity.ID}); err != nil {
			t.Fatalf("fixtures: failed to reserve seat: %v", err)
		}
		activity.Occupied++
	}

	return parseEnrollmentResult(t, results)
}

// CreateConfirmedEnrollment creates an enrollment already confirmed and paid
func (f *Factory) CreateConfirmedEnrollment(t *testing.T, client *model.Client, activity *model.Activity) *model.Enrollment {
	return f.CreateEnrollment(t, client, activity, func(o *EnrollmentOpts) {
		o.Status = model.EnrollmentStatusConfirmed
		o.PaymentStatus = model.PaymentStatusPaid
		o.AmountPaid = activity.Price
	})
}

// ============================================================================
// Review Fixtures
// ============================================================================

// ReviewOpts customizes review creation
type ReviewOpts struct {
	ClientID   *string
	ActivityID *string
	Type       string
	Title      string
	Message    string
	Rating     *int
	Status     string
	Response   *string
	Public     bool
	Anonymous  bool
}

// CreateReview creates a review with optional customizations
func (f *Factory) CreateReview(t *testing.T, opts ...func(*ReviewOpts)) *model.Review {
	t.Helper()

	o := &ReviewOpts{
		Type:    model.ReviewTypePraise,
		Title:   fmt.Sprintf("Avaliacao %s", randomID()),
		Message: "As aulas foram otimas, recomendo a todos.",
		Status:  model.ReviewStatusPending,
		Public:  false,
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE review CONTENT {
			client_id: $client_id,
			activity_id: $activity_id,
			type: $type,
			title: $title,
			message: $message,
			rating: $rating,
			status: $status,
			response: $response,
			public: $public,
			anonymous: $anonymous,
			created_at: time::now(),
			updated_at: time::now()
		}
	`
	vars := map[string]interface{}{
		"client_id":   o.ClientID,
		"activity_id": o.ActivityID,
		"type":        o.Type,
		"title":       o.Title,
		"message":     o.Message,
		"rating":      o.Rating,
		"status":      o.Status,
		"response":    o.Response,
		"public":      o.Public,
		"anonymous":   o.Anonymous,
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create review: %v", err)
	}

	return parseReviewResult(t, results)
}

// CreateAnsweredReview creates a review that already carries a published
// response. Caller options run last and may override visibility.
func (f *Factory) CreateAnsweredReview(t *testing.T, opts ...func(*ReviewOpts)) *model.Review {
	answered := func(o *ReviewOpts) {
		o.Status = model.ReviewStatusAnswered
		resp := "Agradecemos o seu retorno."
		o.Response = &resp
		o.Public = true
	}
	return f.CreateReview(t, append([]func(*ReviewOpts){answered}, opts...)...)
}

// ============================================================================
// Result Parsing
// ============================================================================

func parseClientResult(t *testing.T, results []interface{}) *model.Client {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Client{
		ID:        getString(data, "id"),
		Name:      getString(data, "name"),
		BirthDate: getTime(data, "birth_date"),
		Email:     getString(data, "email"),
		Phone:     getStringPtr(data, "phone"),
		CEP:       getStringPtr(data, "cep"),
		Active:    getBool(data, "active"),
		CreatedAt: getTime(data, "created_at"),
		UpdatedAt: getTime(data, "updated_at"),
	}
}

func parseResponsibleResult(t *testing.T, results []interface{}) *model.Responsible {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Responsible{
		ID:          getString(data, "id"),
		Name:        getString(data, "name"),
		Matricula:   getString(data, "matricula"),
		Unit:        getString(data, "unit"),
		Specialties: getStringSlice(data, "specialties"),
		CreatedAt:   getTime(data, "created_at"),
		UpdatedAt:   getTime(data, "updated_at"),
	}
}

func parseActivityResult(t *testing.T, results []interface{}) *model.Activity {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Activity{
		ID:            getString(data, "id"),
		Name:          getString(data, "name"),
		Unit:          getString(data, "unit"),
		ResponsibleID: getString(data, "responsible_id"),
		Capacity:      getInt(data, "capacity"),
		Occupied:      getInt(data, "occupied"),
		StartsAt:      getTime(data, "starts_at"),
		EndsAt:        getTime(data, "ends_at"),
		Price:         getFloat(data, "price"),
		Status:        getString(data, "status"),
		CreatedAt:     getTime(data, "created_at"),
		UpdatedAt:     getTime(data, "updated_at"),
	}
}

func parseEnrollmentResult(t *testing.T, results []interface{}) *model.Enrollment {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Enrollment{
		ID:            getString(data, "id"),
		ClientID:      getString(data, "client_id"),
		ActivityID:    getString(data, "activity_id"),
		Status:        getString(data, "status"),
		PaymentStatus: getString(data, "payment_status"),
		AmountPaid:    getFloat(data, "amount_paid"),
		Notes:         getStringPtr(data, "notes"),
		CreatedAt:     getTime(data, "created_at"),
		UpdatedAt:     getTime(data, "updated_at"),
	}
}

func parseReviewResult(t *testing.T, results []interface{}) *model.Review {
	t.Helper()
	data := extractFirstResult(t, results)
	review := &model.Review{
		ID:        getString(data, "id"),
		Type:      getString(data, "type"),
		Title:     getString(data, "title"),
		Message:   getString(data, "message"),
		Status:    getString(data, "status"),
		Response:  getStringPtr(data, "response"),
		Public:    getBool(data, "public"),
		Anonymous: getBool(data, "anonymous"),
		CreatedAt: getTime(data, "created_at"),
		UpdatedAt: getTime(data, "updated_at"),
	}
	if v := getStringPtr(data, "client_id"); v != nil {
		review.ClientID = v
	}
	if v := getStringPtr(data, "activity_id"); v != nil {
		review.ActivityID = v
	}
	if rating, ok := data["rating"].(float64); ok {
		r := int(rating)
		review.Rating = &r
	}
	return review
}

// ============================================================================
// Data Extraction Helpers
// ============================================================================

func extractFirstResult(t *testing.T, results []interface{}) map[string]interface{} {
	t.Helper()
	if len(results) == 0 {
		t.Fatal("fixtures: no results returned")
	}

	// Handle SurrealDB response wrapper
	resp, ok := results[0].(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", results[0])
	}

	result, ok := resp["result"]
	if !ok {
		t.Fatal("fixtures: no result in response")
	}

	// Handle array result
	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			t.Fatal("fixtures: empty result array")
		}
		data, ok := arr[0].(map[string]interface{})
		if !ok {
			t.Fatalf("fixtures: unexpected array item type: %T", arr[0])
		}
		return data
	}

	// Handle single result
	data, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", result)
	}
	return data
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	// Handle SurrealDB 3 record ID type - could be a struct or map
	if v := data[key]; v != nil {
		// Try to get the ID as a map with "tb" (table) and "id" fields
		if m, ok := v.(map[string]interface{}); ok {
			if tb, ok := m["tb"].(string); ok {
				if id := m["id"]; id != nil {
					return fmt.Sprintf("%s:%v", tb, id)
				}
			}
		}
		// Fallback: use string conversion but fix the format if needed
		s := fmt.Sprintf("%v", v)
		// Convert "{table id}" to "table:id"
		if len(s) > 2 && s[0] == '{' && s[len(s)-1] == '}' {
			inner := s[1 : len(s)-1]
			for i, c := range inner {
				if c == ' ' {
					return inner[:i] + ":" + inner[i+1:]
				}
			}
		}
		return s
	}
	return ""
}

func getStringPtr(data map[string]interface{}, key string) *string {
	if v, ok := data[key].(string); ok {
		return &v
	}
	return nil
}

func getStringSlice(data map[string]interface{}, key string) []string {
	arr, ok := data[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func getBool(data map[string]interface{}, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}

func getInt(data map[string]interface{}, key string) int {
	if v, ok := data[key].(float64); ok {
		return int(v)
	}
	if v, ok := data[key].(int64); ok {
		return int(v)
	}
	return 0
}

func getFloat(data map[string]interface{}, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func getTime(data map[string]interface{}, key string) time.Time {
	switch v := data[key].(type) {
	case string:
		t, _ := time.Parse(time.RFC3339Nano, v)
		return t
	case time.Time:
		return v
	}
	return time.Time{}
}
