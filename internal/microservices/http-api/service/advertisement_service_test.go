package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"shohorbari/internal/microservices/http-api/dto"
	"shohorbari/internal/microservices/http-api/models"
	"shohorbari/internal/microservices/http-api/policy"
	"shohorbari/internal/microservices/http-api/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	ownerP = policy.Principal{UserID: 1, Role: policy.RoleUser}
	userP  = policy.Principal{UserID: 2, Role: policy.RoleUser}
	adminP = policy.Principal{UserID: 99, Role: policy.RoleAdmin}
)

type adFixture struct {
	svc        AdvertisementService
	ads        *MockAdvertisementRepository
	categories *MockCategoryRepository
	images     *MockImageRepository
	blobs      *MockBlobStore
	notifier   *recordingNotifier
}

func newAdFixture() *adFixture {
	f := &adFixture{
		ads:        new(MockAdvertisementRepository),
		categories: new(MockCategoryRepository),
		images:     new(MockImageRepository),
		blobs:      new(MockBlobStore),
		notifier:   &recordingNotifier{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewAdvertisementService(f.ads, f.categories, f.images, f.blobs, f.notifier, logger)
	return f
}

func TestNormalizeFilter(t *testing.T) {
	got := NormalizeFilter(repository.AdFilter{Page: 0, PageSize: 0, Ordering: "owner"})
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, DefaultPageSize, got.PageSize)
	assert.Equal(t, repository.DefaultOrdering, got.Ordering)

	got = NormalizeFilter(repository.AdFilter{Page: 3, PageSize: 1000, Ordering: "price"})
	assert.Equal(t, 3, got.Page)
	assert.Equal(t, MaxPageSize, got.PageSize)
	assert.Equal(t, "price", got.Ordering)
}

func TestCreateAdvertisement_SetsOwnerAndPending(t *testing.T) {
	f := newAdFixture()
	f.ads.On("Create", mock.Anything, mock.MatchedBy(func(ad *models.Advertisement) bool {
		return ad.OwnerID == userP.UserID && !ad.Approved
	})).Return(nil)

	ad := &models.Advertisement{OwnerID: 500, Approved: true, Title: "Flat", Price: decimal.NewFromInt(10)}
	require.NoError(t, f.svc.Create(context.Background(), userP, ad))
	assert.Equal(t, userP.UserID, ad.OwnerID)
	assert.False(t, ad.Approved)
	f.ads.AssertExpectations(t)
}

func TestCreateAdvertisement_Anonymous(t *testing.T) {
	f := newAdFixture()
	err := f.svc.Create(context.Background(), policy.Anonymous(), &models.Advertisement{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	f.ads.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateAdvertisement_UnknownCategory(t *testing.T) {
	f := newAdFixture()
	cat := int64(77)
	f.categories.On("FindByID", mock.Anything, cat).Return(nil, gorm.ErrRecordNotFound)

	err := f.svc.Create(context.Background(), userP, &models.Advertisement{CategoryID: &cat})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "category")
}

func TestUpdateAdvertisement_Authorization(t *testing.T) {
	title := "New title"
	req := &dto.UpdateAdvertisementRequest{Title: &title}

	t.Run("stranger is forbidden", func(t *testing.T) {
		f := newAdFixture()
		f.ads.On("FindByID", mock.Anything, int64(5)).Return(&models.Advertisement{ID: 5, OwnerID: 1}, nil)

		_, err := f.svc.Update(context.Background(), userP, 5, req)
		assert.ErrorIs(t, err, ErrForbidden)
		f.ads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("admin may edit and owner stays", func(t *testing.T) {
		f := newAdFixture()
		f.ads.On("FindByID", mock.Anything, int64(5)).Return(&models.Advertisement{ID: 5, OwnerID: 1, Title: "Old"}, nil)
		f.ads.On("Update", mock.Anything, mock.MatchedBy(func(ad *models.Advertisement) bool {
			return ad.Title == "New title" && ad.OwnerID == 1 && !ad.Approved
		})).Return(nil)
		f.ads.On("FindDetailed", mock.Anything, int64(5)).Return(&models.Advertisement{ID: 5, OwnerID: 1, Title: "New title"}, nil)

		ad, err := f.svc.Update(context.Background(), adminP, 5, req)
		require.NoError(t, err)
		assert.Equal(t, "New title", ad.Title)
	})

	t.Run("missing advertisement", func(t *testing.T) {
		f := newAdFixture()
		f.ads.On("FindByID", mock.Anything, int64(5)).Return(nil, gorm.ErrRecordNotFound)

		_, err := f.svc.Update(context.Background(), ownerP, 5, req)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateAdvertisement_CategoryNullClears(t *testing.T) {
	f := newAdFixture()
	cat := int64(3)
	f.ads.On("FindByID", mock.Anything, int64(5)).Return(&models.Advertisement{ID: 5, OwnerID: 1, CategoryID: &cat}, nil)
	f.ads.On("Update", mock.Anything, mock.MatchedBy(func(ad *models.Advertisement) bool {
		return ad.CategoryID == nil
	})).Return(nil)
	f.ads.On("FindDetailed", mock.Anything, int64(5)).Return(&models.Advertisement{ID: 5, OwnerID: 1}, nil)

	_, err := f.svc.Update(context.Background(), ownerP, 5, &dto.UpdateAdvertisementRequest{Category: dto.OptionalID{Set: true}})
	require.NoError(t, err)
	f.categories.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	f.ads.AssertExpectations(t)
}

func TestDeleteAdvertisement_RemovesBlobsAfterRow(t *testing.T) {
	f := newAdFixture()
	f.ads.On("FindByID", mock.Anything, int64(5)).Return(&models.Advertisement{ID: 5, OwnerID: 1}, nil)
	f.images.On("ListByAd", mock.Anything, int64(5)).Return([]models.AdvertisementImage{
		{ID: 1, StorageKey: "ads/5/a.png"},
		{ID: 2, StorageKey: "ads/5/b.png"},
	}, nil)
	f.ads.On("Delete", mock.Anything, int64(5)).Return(nil)
	f.blobs.On("Delete", mock.Anything, "ads/5/a.png").Return(nil)
	f.blobs.On("Delete", mock.Anything, "ads/5/b.png").Return(assert.AnError)

	require.NoError(t, f.svc.Delete(context.Background(), ownerP, 5))
	f.blobs.AssertExpectations(t)
}

func TestApprove(t *testing.T) {
	t.Run("owner cannot approve", func(t *testing.T) {
		f := newAdFixture()
		_, err := f.svc.Approve(context.Background(), ownerP, 5)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin approves and owner is notified", func(t *testing.T) {
		f := newAdFixture()
		f.ads.On("FindByID", mock.Anything, int64(5)).Return(&models.Advertisement{ID: 5, OwnerID: 1, Title: "Flat"}, nil)
		f.ads.On("Approve", mock.Anything, int64(5)).Return(nil)

		ad, err := f.svc.Approve(context.Background(), adminP, 5)
		require.NoError(t, err)
		assert.True(t, ad.Approved)

		sent := f.notifier.all()
		require.Len(t, sent, 1)
		assert.Equal(t, int64(1), sent[0].UserID)
		assert.Equal(t, models.NotifyAdApproved, sent[0].Type)
	})

	t.Run("approving twice is quiet", func(t *testing.T) {
		f := newAdFixture()
		f.ads.On("FindByID", mock.Anything, int64(5)).Return(&models.Advertisement{ID: 5, OwnerID: 1, Approved: true}, nil)

		_, err := f.svc.Approve(context.Background(), adminP, 5)
		require.NoError(t, err)
		assert.Empty(t, f.notifier.all())
		f.ads.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything)
	})
}

func TestListPending_AdminOnly(t *testing.T) {
	f := newAdFixture()
	_, err := f.svc.ListPending(context.Background(), userP)
	assert.ErrorIs(t, err, ErrForbidden)

	f.ads.On("ListPending", mock.Anything).Return([]models.Advertisement{{ID: 3}}, nil)
	list, err := f.svc.ListPending(context.Background(), adminP)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
