package addservice

import (
	"context"
	"testing"

	"github.com/printyhq/printy-assist/pkg/flow"
	"github.com/printyhq/printy-assist/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (*flow.Context, *[]models.Service) {
	created := &[]models.Service{}

	fctx := &flow.Context{
		Services: []*models.Service{
			{ID: "SRV-MUG1", Name: "Mug Printing", Category: "Giftware", Status: models.ServiceStatusActive},
		},
		CreateService: func(service models.Service) {
			*created = append(*created, service)
		},
	}

	return fctx, created
}

func TestHappyPath(t *testing.T) {
	fctx, created := newContext()
	engine := newEngine()
	engine.Initial(context.Background(), fctx)

	engine.Respond(context.Background(), fctx, "Tarpaulin Printing")
	require.Equal(t, nodeEnterCode, engine.State().CurrentNode())

	engine.Respond(context.Background(), fctx, "srv-tarp1")
	require.Equal(t, nodeChooseCategory, engine.State().CurrentNode())
	assert.Equal(t, "SRV-TARP1", engine.State().Draft.ID)

	engine.Respond(context.Background(), fctx, "Signage")
	require.Equal(t, nodeChooseStatus, engine.State().CurrentNode())

	engine.Respond(context.Background(), fctx, "coming soon")
	require.Equal(t, nodeConfirm, engine.State().CurrentNode())

	turn := engine.Respond(context.Background(), fctx, labelConfirm)

	require.Len(t, *created, 1)
	assert.Equal(t, models.Service{
		ID:       "SRV-TARP1",
		Name:     "Tarpaulin Printing",
		Category: "Signage",
		Status:   models.ServiceStatusComingSoon,
	}, (*created)[0])
	assert.Equal(t, nodeDone, engine.State().CurrentNode())
	assert.Contains(t, turn.Messages[0].Text, "SRV-TARP1")
}

func TestRejectsTakenCode(t *testing.T) {
	fctx, _ := newContext()
	engine := newEngine()
	engine.Initial(context.Background(), fctx)
	engine.Respond(context.Background(), fctx, "Another Mug Service")

	turn := engine.Respond(context.Background(), fctx, "SRV-MUG1")

	assert.Equal(t, nodeEnterCode, engine.State().CurrentNode())
	assert.Contains(t, turn.Messages[0].Text, "already taken")
}

func TestRejectsMalformedCode(t *testing.T) {
	fctx, _ := newContext()
	engine := newEngine()
	engine.Initial(context.Background(), fctx)
	engine.Respond(context.Background(), fctx, "Sticker Printing")

	turn := engine.Respond(context.Background(), fctx, "STICKERS")

	assert.Equal(t, nodeEnterCode, engine.State().CurrentNode())
	assert.Contains(t, turn.Messages[0].Text, "SRV-")
}

func TestConfirmRechecksUniqueness(t *testing.T) {
	fctx, created := newContext()
	engine := newEngine()
	engine.Initial(context.Background(), fctx)
	engine.Respond(context.Background(), fctx, "Sticker Printing")
	engine.Respond(context.Background(), fctx, "SRV-STK1")
	engine.Respond(context.Background(), fctx, "Giftware")
	engine.Respond(context.Background(), fctx, "Active")
	require.Equal(t, nodeConfirm, engine.State().CurrentNode())

	// Another session grabbed the code while this one sat at confirm.
	fctx.Services = append(fctx.Services, &models.Service{ID: "SRV-STK1", Name: "Stickers", Category: "Giftware", Status: models.ServiceStatusActive})

	turn := engine.Respond(context.Background(), fctx, labelConfirm)

	assert.Empty(t, *created)
	assert.Equal(t, nodeEnterCode, engine.State().CurrentNode())
	assert.Contains(t, turn.Messages[0].Text, "got taken")
}

func TestStartOverResetsDraft(t *testing.T) {
	fctx, _ := newContext()
	engine := newEngine()
	engine.Initial(context.Background(), fctx)
	engine.Respond(context.Background(), fctx, "Sticker Printing")
	engine.Respond(context.Background(), fctx, "SRV-STK1")
	engine.Respond(context.Background(), fctx, "Giftware")
	engine.Respond(context.Background(), fctx, "Active")

	engine.Respond(context.Background(), fctx, labelStartOver)

	assert.Equal(t, nodeStart, engine.State().CurrentNode())
	assert.Equal(t, models.Service{}, engine.State().Draft)
}

func TestCategoryReusesCanonicalCasing(t *testing.T) {
	fctx, _ := newContext()
	engine := newEngine()
	engine.Initial(context.Background(), fctx)
	engine.Respond(context.Background(), fctx, "Tumbler Printing")
	engine.Respond(context.Background(), fctx, "SRV-TMB1")

	engine.Respond(context.Background(), fctx, "giftware")

	assert.Equal(t, "Giftware", engine.State().Draft.Category)
}
