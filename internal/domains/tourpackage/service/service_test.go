package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"voyago/config"
	otelMocks "voyago/infras/otel/mocks"
	pkgMocks "voyago/internal/domains/tourpackage/mocks"
	"voyago/internal/domains/tourpackage/model"
	"voyago/internal/domains/tourpackage/model/dto"
	"voyago/internal/domains/tourpackage/service"
	cacheMocks "voyago/shared/cache/mocks"
	"voyago/shared/constant"
	"voyago/shared/failure"
)

var errCacheMiss = errors.New("cache miss")

type packageFixture struct {
	repo  *pkgMocks.MockTourPackage
	cache *cacheMocks.MockRedisCache
	svc   service.TourPackage
}

func newPackageFixture(t *testing.T) *packageFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &packageFixture{
		repo:  pkgMocks.NewMockTourPackage(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}

	f.svc = service.New(f.repo, &config.Config{}, f.cache, otelMocks.NewOtel())

	// Cache writes and invalidations run asynchronously.
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func agentContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "agent-owner-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAgent)
}

func TestTourPackageService_Create_StoresStartDates(t *testing.T) {
	f := newPackageFixture(t)

	var inserted model.TourPackage

	f.repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, pkg model.TourPackage) error {
			inserted = pkg

			return nil
		})

	var storedDates []time.Time

	f.repo.EXPECT().
		InsertStartDates(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, packageID string, dates []time.Time) error {
			assert.Equal(t, inserted.ID, packageID)
			storedDates = dates

			return nil
		})

	err := f.svc.Create(agentContext(), dto.CreateTourPackageRequest{
		Name:         "Golden Triangle",
		Description:  "Delhi, Agra and Jaipur in six days",
		Destination:  "Delhi, Agra, Jaipur",
		BasePrice:    10000,
		Currency:     "INR",
		DurationDays: 6,
		StartDates:   []string{"2026-10-01", "2026-10-15"},
	})
	require.NoError(t, err)

	assert.Equal(t, "agent-owner-1", inserted.AgentID)
	assert.True(t, inserted.Active)
	require.Len(t, storedDates, 2)
	assert.Equal(t, "2026-10-01", storedDates[0].Format(constant.CalendarDateFormat))
}

func TestTourPackageService_Create_NoStartDates(t *testing.T) {
	f := newPackageFixture(t)

	f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	err := f.svc.Create(agentContext(), dto.CreateTourPackageRequest{
		Name:         "Backwaters Escape",
		Destination:  "Kerala",
		BasePrice:    8000,
		Currency:     "INR",
		DurationDays: 4,
	})
	require.NoError(t, err)
}

func TestTourPackageService_Get_EnrichesStartDates(t *testing.T) {
	f := newPackageFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.TourPackage{
		ID:          "pkg-1",
		AgentID:     "agent-owner-1",
		Name:        "Golden Triangle",
		Destination: "Delhi, Agra, Jaipur",
		BasePrice:   10000,
		Active:      true,
	}, nil)
	f.repo.EXPECT().GetStartDates(gomock.Any(), "pkg-1").Return([]model.StartDate{
		{PackageID: "pkg-1", StartDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
	}, nil)

	res, err := f.svc.Get(context.Background(), "pkg-1")
	require.NoError(t, err)

	assert.Equal(t, "pkg-1", res.ID)
	assert.Equal(t, []string{"2026-10-01"}, res.StartDates)
}

func TestTourPackageService_Get_NotFound(t *testing.T) {
	f := newPackageFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.TourPackage{}, nil)

	_, err := f.svc.Get(context.Background(), "missing-pkg")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestTourPackageService_Update_EmptyRequest(t *testing.T) {
	f := newPackageFixture(t)

	err := f.svc.Update(agentContext(), dto.UpdateTourPackageRequest{}, "pkg-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestTourPackageService_Delete_Deactivates(t *testing.T) {
	f := newPackageFixture(t)

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

	var fields map[string]any

	f.repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, updated map[string]any, _ any) error {
			fields = updated

			return nil
		})

	err := f.svc.Delete(agentContext(), "pkg-1")
	require.NoError(t, err)

	assert.Equal(t, false, fields[model.FieldActive])
}
