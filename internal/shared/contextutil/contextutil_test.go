package contextutil_test

import (
	"context"
	"testing"

	"github.com/dilinamewan/Employee-Directory/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestExtractMetadata(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "REQ-1")
	ctx = contextutil.WithUserID(ctx, "user-9")
	ctx = contextutil.WithRole(ctx, "HR")

	md := contextutil.ExtractMetadata(ctx)

	assert.Equal(t, contextutil.Metadata{RequestID: "REQ-1", UserID: "user-9", Role: "HR"}, md)
	assert.Len(t, md.Fields(), 3)
}

func TestExtractMetadata_Empty(t *testing.T) {
	md := contextutil.ExtractMetadata(context.Background())

	assert.Equal(t, contextutil.Metadata{}, md)
	assert.Empty(t, md.Fields())
}

func TestMetadata_FieldsSkipsEmpty(t *testing.T) {
	fields := contextutil.Metadata{UserID: "user-9"}.Fields()

	assert.Equal(t, []zap.Field{zap.String("user_id", "user-9")}, fields)
}

func TestGetLogger(t *testing.T) {
	fallback := zap.NewExample()
	scoped := zap.NewExample().Named("scoped")

	assert.Same(t, fallback, contextutil.GetLogger(context.Background(), fallback))
	assert.Same(t, scoped, contextutil.GetLogger(contextutil.WithLogger(context.Background(), scoped), fallback))
	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))
}
