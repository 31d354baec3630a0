package recs

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/isaac-mason/rapida-sub001/internal/set"
	"go.uber.org/zap"
)

type queryEventKind uint8

const (
	componentAddedEvent queryEventKind = iota
	componentRemovedEvent
	entityAddedEvent
	entityRemovedEvent
)

// queryEvent is a buffered change, applied to the queries in queryManager.update.
type queryEvent struct {
	Kind          queryEventKind
	Entity        *Entity
	ComponentType *ComponentType
}

// queryManager keeps every query up to date. Changes to entities are
// buffered and applied once per World.Update, so queries never change while
// systems iterate them.
type queryManager struct {
	world *World
	log   *zap.Logger

	// queries bucketed by the hash of their key
	byHash  map[uint64][]*Query
	queries set.Ordered[*Query]

	// queries interested in a component type
	byComponent map[*ComponentType][]*Query

	// queries with only not conditions, they match new entities without
	// any component event touching them
	negative []*Query

	// queries currently containing an entity
	byEntity map[EntityId]*set.Set[*Query]

	events []queryEvent
}

func newQueryManager(world *World, log *zap.Logger) *queryManager {
	return &queryManager{
		world:       world,
		log:         log,
		byHash:      map[uint64][]*Query{},
		byComponent: map[*ComponentType][]*Query{},
		byEntity:    map[EntityId]*set.Set[*Query]{},
	}
}

// getQuery returns the cached query for the description, creating and
// populating it if necessary.
func (m *queryManager) getQuery(description QueryDescription) (*Query, error) {
	if err := description.validate(); err != nil {
		return nil, err
	}

	key := description.Key()
	if query, ok := m.lookup(key); ok {
		return query, nil
	}

	query := newQuery(description, key)

	// the only full scan, everything afterward is incremental
	for entity := range m.world.aliveEntities() {
		if query.matches(entity) {
			query.all.insert(entity)
			m.track(entity, query)
		}
	}

	m.byHash[query.hash] = append(m.byHash[query.hash], query)
	m.queries.Insert(query)

	for _, ty := range query.components {
		m.byComponent[ty] = append(m.byComponent[ty], query)
	}

	if query.negative() {
		m.negative = append(m.negative, query)
	}

	m.log.Debug("Query created",
		zap.String("key", key),
		zap.Int("entities", query.all.Len()),
	)

	return query, nil
}

func (m *queryManager) hasQuery(description QueryDescription) bool {
	if description.validate() != nil {
		return false
	}

	_, ok := m.lookup(description.Key())
	return ok
}

func (m *queryManager) lookup(key string) (*Query, bool) {
	for _, query := range m.byHash[xxhash.Sum64String(key)] {
		if query.key == key {
			return query, true
		}
	}

	return nil, false
}

// removeQuery forgets a query. Callers must make sure no system still uses it.
func (m *queryManager) removeQuery(query *Query) {
	if !m.queries.Remove(query) {
		return
	}

	m.byHash[query.hash] = slices.DeleteFunc(m.byHash[query.hash], func(q *Query) bool { return q == query })
	if len(m.byHash[query.hash]) == 0 {
		delete(m.byHash, query.hash)
	}

	for _, ty := range query.components {
		m.byComponent[ty] = slices.DeleteFunc(m.byComponent[ty], func(q *Query) bool { return q == query })
		if len(m.byComponent[ty]) == 0 {
			delete(m.byComponent, ty)
		}
	}

	m.negative = slices.DeleteFunc(m.negative, func(q *Query) bool { return q == query })

	for entity := range query.all.Values() {
		m.untrack(entity, query)
	}

	query.all.clear()
	query.added.clear()
	query.removed.clear()

	m.log.Debug("Query removed", zap.String("key", query.key))
}

func (m *queryManager) onEntityComponentAdded(entity *Entity, component AnyComponent) {
	m.events = append(m.events, queryEvent{
		Kind:          componentAddedEvent,
		Entity:        entity,
		ComponentType: component.ComponentType(),
	})
}

func (m *queryManager) onEntityComponentRemoved(entity *Entity, component AnyComponent) {
	m.events = append(m.events, queryEvent{
		Kind:          componentRemovedEvent,
		Entity:        entity,
		ComponentType: component.ComponentType(),
	})
}

func (m *queryManager) onEntityAdded(entity *Entity) {
	m.events = append(m.events, queryEvent{
		Kind:   entityAddedEvent,
		Entity: entity,
	})
}

func (m *queryManager) onEntityRemoved(entity *Entity) {
	m.events = append(m.events, queryEvent{
		Kind:   entityRemovedEvent,
		Entity: entity,
	})
}

// update resets the added and removed sets of every query and applies all
// buffered events.
func (m *queryManager) update() {
	for query := range m.queries.Values() {
		query.added.clear()
		query.removed.clear()
	}

	for idx := range m.events {
		event := &m.events[idx]

		switch event.Kind {
		case componentAddedEvent, componentRemovedEvent:
			for _, query := range m.byComponent[event.ComponentType] {
				m.evaluate(query, event.Entity)
			}

		case entityAddedEvent:
			for _, query := range m.negative {
				m.evaluate(query, event.Entity)
			}

		case entityRemovedEvent:
			m.removeEntity(event.Entity)

		default:
			panic(fmt.Sprintf("unknown query event kind %d", event.Kind))
		}
	}

	clear(m.events)
	m.events = m.events[:0]
}

// evaluate brings the membership of a single entity in sync with its components.
func (m *queryManager) evaluate(query *Query, entity *Entity) {
	matches := query.matches(entity)
	member := query.all.Has(entity)

	switch {
	case matches && !member:
		query.all.insert(entity)
		m.track(entity, query)

		// left and came back within the same update
		if !query.removed.remove(entity) {
			query.added.insert(entity)
		}

	case !matches && member:
		query.all.remove(entity)
		m.untrack(entity, query)

		if !query.added.remove(entity) {
			query.removed.insert(entity)
		}
	}
}

func (m *queryManager) removeEntity(entity *Entity) {
	queries, ok := m.byEntity[entity.id]
	if !ok {
		return
	}

	delete(m.byEntity, entity.id)

	for query := range queries.Values() {
		query.all.remove(entity)

		if !query.added.remove(entity) {
			query.removed.insert(entity)
		}
	}
}

func (m *queryManager) track(entity *Entity, query *Query) {
	queries, ok := m.byEntity[entity.id]
	if !ok {
		queries = &set.Set[*Query]{}
		m.byEntity[entity.id] = queries
	}

	queries.Insert(query)
}

func (m *queryManager) untrack(entity *Entity, query *Query) {
	queries, ok := m.byEntity[entity.id]
	if !ok {
		return
	}

	queries.Remove(query)
	if queries.Len() == 0 {
		delete(m.byEntity, entity.id)
	}
}

// scan evaluates a description against every entity without caching.
func (m *queryManager) scan(description QueryDescription) (*EntitySet, error) {
	if err := description.validate(); err != nil {
		return nil, err
	}

	result := &EntitySet{}
	for entity := range m.world.aliveEntities() {
		if description.Matches(entity) {
			result.insert(entity)
		}
	}

	return result, nil
}

func (m *queryManager) reset() {
	for query := range m.queries.Values() {
		m.removeQuery(query)
	}

	clear(m.events)
	m.events = m.events[:0]
}
