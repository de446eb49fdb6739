package service_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jaekwang-park/plantcare-api/internal/catalog"
	"github.com/jaekwang-park/plantcare-api/internal/cognito"
	"github.com/jaekwang-park/plantcare-api/internal/model"
	"github.com/jaekwang-park/plantcare-api/internal/service"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// --- catalog ---

type stubFetcher struct {
	mu       sync.Mutex
	pages    map[int][]model.Plant
	pageErrs map[int]error
}

func (f *stubFetcher) ListPlants(ctx context.Context, page, limit int) ([]model.Plant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.pageErrs[page]; err != nil {
		return nil, err
	}
	return f.pages[page], nil
}

func (f *stubFetcher) ListEnvironments(ctx context.Context) ([]model.EnvironmentTag, error) {
	return []model.EnvironmentTag{
		{Key: "bathroom", Title: "Banheiro"},
		{Key: "living_room", Title: "Sala"},
	}, nil
}

func (f *stubFetcher) failPage(page int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pageErrs == nil {
		f.pageErrs = map[int]error{}
	}
	if err == nil {
		delete(f.pageErrs, page)
		return
	}
	f.pageErrs[page] = err
}

// catalogPlants returns n plants; even ids live in the living room, odd ids
// in the bathroom.
func catalogPlants(firstID, n int) []model.Plant {
	plants := make([]model.Plant, 0, n)
	for id := firstID; id < firstID+n; id++ {
		env := "bathroom"
		if id%2 == 0 {
			env = "living_room"
		}
		plants = append(plants, model.Plant{
			ID:           id,
			Name:         fmt.Sprintf("plant-%02d", id),
			Environments: []string{env},
			Frequency:    model.Frequency{Times: 2, RepeatEvery: model.RepeatEveryWeek},
		})
	}
	return plants
}

// twoPageFetcher serves a full page of 8 and a short page of 3.
func twoPageFetcher() *stubFetcher {
	return &stubFetcher{pages: map[int][]model.Plant{
		1: catalogPlants(1, 8),
		2: catalogPlants(9, 3),
	}}
}

func newCatalogService(f catalog.Fetcher) *service.CatalogService {
	registry := catalog.NewRegistry(16, time.Hour, func() *catalog.Controller {
		return catalog.NewController(f, catalog.DefaultPageSize, discard)
	})
	return service.NewCatalogService(registry, discard)
}

// --- reminders ---

type mockReminderRepo struct {
	saveFn    func(ctx context.Context, r model.Reminder) (model.Reminder, error)
	getByIDFn func(ctx context.Context, gardenerID, reminderID string) (model.Reminder, error)
	listFn    func(ctx context.Context, gardenerID string) ([]model.Reminder, error)
	deleteFn  func(ctx context.Context, gardenerID, reminderID string) error
}

func (m *mockReminderRepo) Save(ctx context.Context, r model.Reminder) (model.Reminder, error) {
	return m.saveFn(ctx, r)
}
func (m *mockReminderRepo) GetByID(ctx context.Context, gardenerID, reminderID string) (model.Reminder, error) {
	return m.getByIDFn(ctx, gardenerID, reminderID)
}
func (m *mockReminderRepo) List(ctx context.Context, gardenerID string) ([]model.Reminder, error) {
	return m.listFn(ctx, gardenerID)
}
func (m *mockReminderRepo) Delete(ctx context.Context, gardenerID, reminderID string) error {
	return m.deleteFn(ctx, gardenerID, reminderID)
}

type plantSourceFunc func(ctx context.Context, gardenerID, sessionID string, plantID int) (model.Plant, error)

func (f plantSourceFunc) SelectPlant(ctx context.Context, gardenerID, sessionID string, plantID int) (model.Plant, error) {
	return f(ctx, gardenerID, sessionID, plantID)
}

// --- accounts ---

type mockCognito struct {
	signUpFn        func(ctx context.Context, in cognito.SignUpInput) (cognito.SignUpOutput, error)
	confirmSignUpFn func(ctx context.Context, in cognito.ConfirmSignUpInput) error
	loginFn         func(ctx context.Context, in cognito.LoginInput) (cognito.AuthOutput, error)
	refreshFn       func(ctx context.Context, in cognito.RefreshInput) (cognito.AuthOutput, error)
	signOutFn       func(ctx context.Context, accessToken string) error
}

func (m *mockCognito) SignUp(ctx context.Context, in cognito.SignUpInput) (cognito.SignUpOutput, error) {
	return m.signUpFn(ctx, in)
}
func (m *mockCognito) ConfirmSignUp(ctx context.Context, in cognito.ConfirmSignUpInput) error {
	return m.confirmSignUpFn(ctx, in)
}
func (m *mockCognito) Login(ctx context.Context, in cognito.LoginInput) (cognito.AuthOutput, error) {
	return m.loginFn(ctx, in)
}
func (m *mockCognito) RefreshTokens(ctx context.Context, in cognito.RefreshInput) (cognito.AuthOutput, error) {
	return m.refreshFn(ctx, in)
}
func (m *mockCognito) GlobalSignOut(ctx context.Context, accessToken string) error {
	return m.signOutFn(ctx, accessToken)
}

type mockGardenerRepo struct {
	getOrCreateFn     func(ctx context.Context, sub, email, nickname string) (model.Gardener, error)
	getByCognitoSubFn func(ctx context.Context, sub string) (model.Gardener, error)
	getByIDFn         func(ctx context.Context, id string) (model.Gardener, error)
	updateFn          func(ctx context.Context, g model.Gardener) (model.Gardener, error)
}

func (m *mockGardenerRepo) GetOrCreate(ctx context.Context, sub, email, nickname string) (model.Gardener, error) {
	return m.getOrCreateFn(ctx, sub, email, nickname)
}
func (m *mockGardenerRepo) GetByCognitoSub(ctx context.Context, sub string) (model.Gardener, error) {
	return m.getByCognitoSubFn(ctx, sub)
}
func (m *mockGardenerRepo) GetByID(ctx context.Context, id string) (model.Gardener, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockGardenerRepo) Update(ctx context.Context, g model.Gardener) (model.Gardener, error) {
	return m.updateFn(ctx, g)
}

// fakeIDToken builds an id token the account service can read. Its
// signature is never verified there.
func fakeIDToken(sub, nickname string) string {
	claims := jwt.MapClaims{"sub": sub, "token_use": "id"}
	if nickname != "" {
		claims["nickname"] = nickname
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		panic(err)
	}
	return signed
}
