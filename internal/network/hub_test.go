package network

import (
	"testing"

	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_SendTo(t *testing.T) {
	b := NewBroadcaster()
	hero := domain.PackThingID(domain.ThingHuman, 1)
	monkey := domain.PackThingID(domain.ThingMonkey, 2)

	ch := b.Register(hero)
	assert.True(t, b.HasSubscriber(hero))
	assert.False(t, b.HasSubscriber(monkey))

	b.SendTo(hero, api.ViewUpdate{Tick: 7})
	b.SendTo(monkey, api.ViewUpdate{Tick: 8}) // некому - молча пропускается

	msg := <-ch
	assert.Equal(t, 7, msg.Tick)
	assert.Equal(t, 1, b.SubscriberCount())
}

func TestBroadcaster_ReRegisterClosesOld(t *testing.T) {
	b := NewBroadcaster()
	hero := domain.PackThingID(domain.ThingHuman, 1)

	first := b.Register(hero)
	second := b.Register(hero)

	_, open := <-first
	assert.False(t, open, "previous subscriber is disconnected")

	// Старый клиент отписывается поздно: новый не должен пострадать
	b.Unregister(hero, first)
	require.True(t, b.HasSubscriber(hero))

	b.Unregister(hero, second)
	assert.False(t, b.HasSubscriber(hero))
	_, open = <-second
	assert.False(t, open)
}

func TestBroadcaster_FullChannelDrops(t *testing.T) {
	b := NewBroadcaster()
	hero := domain.PackThingID(domain.ThingHuman, 1)
	ch := b.Register(hero)

	for n := 0; n < cap(ch)+10; n++ {
		b.SendTo(hero, api.ViewUpdate{Tick: n})
	}
	assert.Len(t, ch, cap(ch))
}
