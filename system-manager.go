package recs

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/isaac-mason/rapida-sub001/internal/set"
	"go.uber.org/zap"
)

// systemManager owns the systems of a world and the link between systems
// and the queries they use. A query that is no longer used by any system is
// removed, unless it was requested directly from the world.
type systemManager struct {
	world *World
	log   *zap.Logger

	systems    set.Ordered[AnySystem]
	updatePool set.Ordered[AnySystem]

	// systems using a query, by query key
	queryUsers map[string]*set.Set[AnySystem]

	systemIdSeq SystemId
}

func newSystemManager(world *World, log *zap.Logger) *systemManager {
	return &systemManager{
		world:      world,
		log:        log,
		queryUsers: map[string]*set.Set[AnySystem]{},
	}
}

func (m *systemManager) addSystem(system AnySystem) error {
	base := system.system()
	if base.world != nil {
		return ErrSystemAlreadyAdded
	}

	results := Results{}

	// sorted for a deterministic query creation order
	names := slices.Sorted(maps.Keys(base.Queries))

	for _, name := range names {
		query, err := m.world.queryManager.getQuery(base.Queries[name])
		if err != nil {
			m.releaseQueries(system, results)
			return fmt.Errorf("system query %q: %w", name, err)
		}

		results[name] = query

		users, ok := m.queryUsers[query.key]
		if !ok {
			users = &set.Set[AnySystem]{}
			m.queryUsers[query.key] = users
		}

		users.Insert(system)
	}

	m.systemIdSeq += 1

	base.id = m.systemIdSeq
	base.world = m.world
	base.owner = system
	base.results = results

	m.systems.Insert(system)

	m.log.Debug("System added",
		zap.Uint64("id", uint64(base.id)),
		zap.String("type", fmt.Sprintf("%T", system)),
		zap.Int("queries", len(results)),
	)

	if m.world.initialised {
		m.initialiseSystem(system)
	}

	return nil
}

func (m *systemManager) initialiseSystem(system AnySystem) {
	base := system.system()
	if base.initialised {
		return
	}

	base.initialised = true

	if initializer, ok := system.(SystemInitializer); ok {
		initializer.OnInit()
	}

	if _, ok := system.(SystemUpdater); ok {
		m.updatePool.Insert(system)
	}
}

func (m *systemManager) removeSystem(system AnySystem) error {
	base := system.system()
	if base.world != m.world || !m.systems.Has(system) {
		return ErrSystemNotAdded
	}

	m.updatePool.Remove(system)
	m.systems.Remove(system)

	m.releaseQueries(system, base.results)

	if base.initialised {
		if destroyer, ok := system.(SystemDestroyer); ok {
			destroyer.OnDestroy()
		}
	}

	m.log.Debug("System removed", zap.Uint64("id", uint64(base.id)))

	base.world = nil
	base.owner = nil
	base.results = nil
	base.initialised = false

	return nil
}

// releaseQueries drops the system from the users of its queries and removes
// queries nobody uses anymore.
func (m *systemManager) releaseQueries(system AnySystem, results Results) {
	for _, query := range results {
		users, ok := m.queryUsers[query.key]
		if !ok {
			continue
		}

		users.Remove(system)

		if users.Len() > 0 {
			continue
		}

		delete(m.queryUsers, query.key)

		if !query.standalone {
			m.world.queryManager.removeQuery(query)
		}
	}
}

func (m *systemManager) isQueryUsed(query *Query) bool {
	users, ok := m.queryUsers[query.key]
	return ok && users.Len() > 0
}

func (m *systemManager) update(delta, time float64) {
	for system := range m.updatePool.Values() {
		base := system.system()
		if base.disabled {
			continue
		}

		system.(SystemUpdater).OnUpdate(delta, time, base.results)
	}
}

func (m *systemManager) destroy() error {
	var errs []error

	for system := range m.systems.Values() {
		if err := m.removeSystem(system); err != nil {
			m.log.Warn("Failed to remove system",
				zap.String("type", fmt.Sprintf("%T", system)),
				zap.Error(err),
			)

			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
