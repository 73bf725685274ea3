package settings

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestChangedFields(t *testing.T) {
	userID := uuid.New()

	t.Run("identical sections are clean", func(t *testing.T) {
		a := StoreSettings{UserID: userID, StoreName: "Pixel Goods", VacationMode: true}
		b := a

		assert.Empty(t, ChangedFields(a, b))
	})

	t.Run("reports each changed field by name", func(t *testing.T) {
		a := StoreSettings{UserID: userID, StoreName: "Pixel Goods", SupportEmail: "old@example.com"}
		b := StoreSettings{UserID: userID, StoreName: "Vector Goods", SupportEmail: "new@example.com"}

		assert.ElementsMatch(t, []string{"StoreName", "SupportEmail"}, ChangedFields(a, b))
	})

	t.Run("bool flip is dirty", func(t *testing.T) {
		a := StoreSettings{UserID: userID}
		b := StoreSettings{UserID: userID, VacationMode: true}

		assert.Equal(t, []string{"VacationMode"}, ChangedFields(a, b))
	})

	t.Run("ownership and timestamps never count", func(t *testing.T) {
		a := ProfileSettings{UserID: userID, DisplayName: "Ada"}
		b := ProfileSettings{UserID: uuid.New(), DisplayName: "Ada", UpdatedAt: time.Now()}

		assert.Empty(t, ChangedFields(a, b))
	})
}
