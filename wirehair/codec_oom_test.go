package wirehair

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wirehair-go/wirehair/internal/mocks"
)

func TestNewEncoderPropagatesAllocatorRefusal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	alloc := mocks.NewMockAllocator(ctrl)
	alloc.EXPECT().Alloc(gomock.Any()).Return(nil).AnyTimes()

	_, err := NewEncoder(Params{T: 16 * 64, M: 64, Alloc: alloc})
	require.ErrorIs(t, err, ErrOom)
}
