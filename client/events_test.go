package client_test

import (
	"testing"

	"github.com/openweb3-io/cryptocapital/client"
	"github.com/openweb3-io/cryptocapital/types"
	"github.com/stretchr/testify/require"
)

func TestRegistryOrder(t *testing.T) {
	r := client.NewRegistry()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		r.Subscribe(types.EventAck, func(types.Event) { order = append(order, i) })
	}
	require.Equal(t, 5, r.Publish(types.Event{Name: types.EventAck}))
	require.Equal(t, []int{0, 1, 2, 3, 4}, order)
	require.Equal(t, 0, r.Publish(types.Event{Name: types.EventErr}))
}

func TestRegistryCancel(t *testing.T) {
	r := client.NewRegistry()
	calls := 0
	cancel := r.Subscribe(types.EventTransfer, func(types.Event) { calls++ })
	r.Publish(types.Event{Name: types.EventTransfer})
	cancel()
	cancel()
	r.Publish(types.Event{Name: types.EventTransfer})
	require.Equal(t, 1, calls)
	require.Equal(t, 0, r.Len(types.EventTransfer))
}

func TestRegistryMutationDuringPublish(t *testing.T) {
	r := client.NewRegistry()
	late := 0
	var cancel func()
	cancel = r.Subscribe(types.EventAccount, func(types.Event) {
		cancel()
		r.Subscribe(types.EventAccount, func(types.Event) { late++ })
	})

	require.Equal(t, 1, r.Publish(types.Event{Name: types.EventAccount}))
	require.Equal(t, 0, late)
	require.Equal(t, 1, r.Publish(types.Event{Name: types.EventAccount}))
	require.Equal(t, 1, late)
}

func TestRegistryIgnoresNilHandler(t *testing.T) {
	r := client.NewRegistry()
	cancel := r.Subscribe(types.EventAck, nil)
	require.Equal(t, 0, r.Len(types.EventAck))
	require.NotPanics(t, func() {
		require.Equal(t, 0, r.Publish(types.Event{Name: types.EventAck}))
	})
	cancel()
}
