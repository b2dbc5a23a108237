package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"voyago/config"
	otelMocks "voyago/infras/otel/mocks"
	roomMocks "voyago/internal/domains/room/mocks"
	"voyago/internal/domains/room/model"
	"voyago/internal/domains/room/model/dto"
	"voyago/internal/domains/room/service"
	cacheMocks "voyago/shared/cache/mocks"
	"voyago/shared/constant"
	"voyago/shared/failure"
)

var errCacheMiss = errors.New("cache miss")

type roomFixture struct {
	repo  *roomMocks.MockRoom
	cache *cacheMocks.MockRedisCache
	svc   service.Room
}

func newRoomFixture(t *testing.T) *roomFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &roomFixture{
		repo:  roomMocks.NewMockRoom(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}

	f.svc = service.New(f.repo, &config.Config{}, f.cache, otelMocks.NewOtel())

	// Cache writes and invalidations run asynchronously.
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func hotelContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "hotel-owner-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleHotel)
}

func TestRoomService_Create(t *testing.T) {
	f := newRoomFixture(t)

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

	var inserted model.Room

	f.repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, room model.Room) error {
			inserted = room

			return nil
		})

	err := f.svc.Create(hotelContext(), dto.CreateRoomRequest{
		HotelID:          "hotel-owner-1",
		RoomNumber:       "101",
		Name:             "Deluxe Sea View",
		BasePrice:        1000,
		Currency:         "INR",
		CapacityAdults:   2,
		CapacityChildren: 1,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, inserted.ID)
	assert.Equal(t, "hotel-owner-1", inserted.HotelID)
	assert.Equal(t, "101", inserted.RoomNumber)
	assert.True(t, inserted.Available)
	assert.True(t, inserted.Active)
	assert.Equal(t, "hotel-owner-1", inserted.Metadata.CreatedBy)
}

func TestRoomService_Create_DuplicateRoomNumber(t *testing.T) {
	f := newRoomFixture(t)

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

	err := f.svc.Create(hotelContext(), dto.CreateRoomRequest{
		HotelID:    "hotel-owner-1",
		RoomNumber: "101",
		Name:       "Deluxe Sea View",
		BasePrice:  1000,
		Currency:   "INR",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestRoomService_Get_NotFound(t *testing.T) {
	f := newRoomFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

	_, err := f.svc.Get(context.Background(), "missing-room")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestRoomService_Get_CacheHit(t *testing.T) {
	f := newRoomFixture(t)

	f.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value any) error {
			res, ok := value.(*dto.RoomResponse)
			require.True(t, ok)
			res.ID = "room-1"

			return nil
		})

	res, err := f.svc.Get(context.Background(), "room-1")
	require.NoError(t, err)
	assert.Equal(t, "room-1", res.ID)
}

func TestRoomService_Update_EmptyRequest(t *testing.T) {
	f := newRoomFixture(t)

	err := f.svc.Update(hotelContext(), dto.UpdateRoomRequest{}, "room-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestRoomService_Update(t *testing.T) {
	f := newRoomFixture(t)

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

	var fields map[string]any

	f.repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, updated map[string]any, _ any) error {
			fields = updated

			return nil
		})

	err := f.svc.Update(hotelContext(), dto.UpdateRoomRequest{BasePrice: 1500}, "room-1")
	require.NoError(t, err)

	assert.Equal(t, 1500.0, fields[model.FieldBasePrice])
	assert.Equal(t, "hotel-owner-1", fields[constant.FieldModifiedBy])
}

func TestRoomService_Delete_Deactivates(t *testing.T) {
	f := newRoomFixture(t)

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

	var fields map[string]any

	f.repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, updated map[string]any, _ any) error {
			fields = updated

			return nil
		})

	err := f.svc.Delete(hotelContext(), "room-1")
	require.NoError(t, err)

	assert.Equal(t, false, fields[model.FieldActive])
}

func TestRoomService_Delete_NotFound(t *testing.T) {
	f := newRoomFixture(t)

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

	err := f.svc.Delete(hotelContext(), "missing-room")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}
