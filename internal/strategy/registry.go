package strategy

import (
	"fmt"
	"strings"
)

// entry asocia una clave numérica y un alias con la factoría de la estrategia.
type entry struct {
	key   string
	alias string
	build func(Clock) Strategy
}

// El orden de inserción define el orden de List y del menú del CLI.
var entries = []entry{
	{"1", "trend", func(c Clock) Strategy { return NewTrendFollowing(c) }},
	{"2", "iv_crush", func(c Clock) Strategy { return NewIVCrush(c) }},
	{"3", "mean_rev", func(c Clock) Strategy { return NewMeanReversion(c) }},
	{"4", "breakout", func(c Clock) Strategy { return NewBreakout(c) }},
	{"5", "condor", func(c Clock) Strategy { return NewIronCondor(c) }},
}

// registered envuelve una estrategia para inyectar en su Info la Key y el
// Alias con los que está dada de alta en el registry.
type registered struct {
	Strategy
	key   string
	alias string
}

func (r *registered) Info() Info {
	info := r.Strategy.Info()
	info.Key = r.key
	info.Alias = r.alias
	return info
}

// Get devuelve una instancia nueva de la estrategia identificada por key:
// número ("1".."5") o alias (trend, iv_crush, mean_rev, breakout, condor).
// Clave desconocida devuelve error descriptivo, nunca panic.
func Get(key string) (Strategy, error) {
	return GetWithClock(key, nil)
}

// GetWithClock es Get con un clock inyectado (tests congelan el tiempo).
func GetWithClock(key string, clock Clock) (Strategy, error) {
	norm := strings.ToLower(strings.TrimSpace(key))
	for _, e := range entries {
		if e.key == norm || e.alias == norm {
			return &registered{Strategy: e.build(clock), key: e.key, alias: e.alias}, nil
		}
	}
	return nil, fmt.Errorf("strategy.Get: unknown strategy %q", key)
}

// List devuelve la metadata de todas las estrategias en orden de inserción,
// con Key y Alias rellenados.
func List() []Info {
	infos := make([]Info, 0, len(entries))
	for _, e := range entries {
		r := registered{Strategy: e.build(nil), key: e.key, alias: e.alias}
		infos = append(infos, r.Info())
	}
	return infos
}
