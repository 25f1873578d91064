package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sisyflow/sisyflow/internal/domain"
	"github.com/sisyflow/sisyflow/internal/events"
	"github.com/sisyflow/sisyflow/internal/repository/fakes"
	"github.com/sisyflow/sisyflow/internal/service"
	apperrors "github.com/sisyflow/sisyflow/pkg/util"
)

func TestGetDocumentationWhenNeverSaved(t *testing.T) {
	svc := service.NewDocumentationService(fakes.NewDocumentationRepo(), nil)

	doc, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.Empty(t, doc.Content)
	require.Nil(t, doc.UpdatedBy)
}

func TestSaveDocumentationValidation(t *testing.T) {
	svc := service.NewDocumentationService(fakes.NewDocumentationRepo(), nil)
	user := &domain.Profile{ID: "admin-1", IsAdmin: true}
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
	}{
		{name: "empty", content: ""},
		{name: "whitespace only", content: "  \n\t "},
		{name: "over budget", content: strings.Repeat("a", domain.MaxDocumentationLength+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Save(ctx, user, tt.content)
			require.Error(t, err)
			require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
		})
	}
}

func TestSaveDocumentationRoundTrip(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	repo := fakes.NewDocumentationRepo()
	svc := service.NewDocumentationService(repo, dispatcher)
	user := &domain.Profile{ID: "admin-1", Username: "admin", IsAdmin: true}
	ctx := context.Background()

	content := "# Release process\n\n1. Tag the commit.\n"
	saved, err := svc.Save(ctx, user, content)
	require.NoError(t, err)
	require.Equal(t, content, saved.Content)
	require.NotNil(t, saved.UpdatedBy)
	require.Equal(t, user.ID, *saved.UpdatedBy)
	require.Len(t, dispatcher.byType(events.EventDocumentationUpdated), 1)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, content, got.Content)
	require.False(t, got.UpdatedAt.IsZero())
}

func TestSaveDocumentationKeepsExactBudgetContent(t *testing.T) {
	svc := service.NewDocumentationService(fakes.NewDocumentationRepo(), nil)
	user := &domain.Profile{ID: "admin-1", IsAdmin: true}

	content := strings.Repeat("a", domain.MaxDocumentationLength)
	saved, err := svc.Save(context.Background(), user, content)
	require.NoError(t, err)
	require.Len(t, saved.Content, domain.MaxDocumentationLength)
}
