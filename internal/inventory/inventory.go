// Package inventory keeps what a player carries: a set of items, the runes
// collected so far and counted stacks of consumable remedies. Every identity
// is compared through its folded key, so spelling variants are one item.
package inventory

import (
	"sort"

	"github.com/Varyaggg/quest-bot/internal/fold"
)

// Inventory is not safe for concurrent use; the session lock guards it.
type Inventory struct {
	items   map[string]string
	runes   map[string]string
	potions map[string]int
	names   map[string]string
}

// New returns an empty inventory.
func New() *Inventory {
	return &Inventory{
		items:   make(map[string]string),
		runes:   make(map[string]string),
		potions: make(map[string]int),
		names:   make(map[string]string),
	}
}

// Grant adds name to the set. It reports false when the item was already held.
func (inv *Inventory) Grant(name string) bool {
	key := fold.Key(name)
	if _, ok := inv.items[key]; ok {
		return false
	}
	inv.items[key] = name
	return true
}

// Consume removes name from the set. It reports whether anything was removed.
func (inv *Inventory) Consume(name string) bool {
	key := fold.Key(name)
	if _, ok := inv.items[key]; !ok {
		return false
	}
	delete(inv.items, key)
	return true
}

// Has reports whether name is held as an item, a rune or at least one potion.
func (inv *Inventory) Has(name string) bool {
	key := fold.Key(name)
	if _, ok := inv.items[key]; ok {
		return true
	}
	if _, ok := inv.runes[key]; ok {
		return true
	}
	return inv.potions[key] > 0
}

// Items returns the display names of the held set, sorted.
func (inv *Inventory) Items() []string {
	return sortedValues(inv.items)
}

// GrantRune records a rune. Runes are never consumed; a rune seen twice
// counts once. It reports whether the rune was new.
func (inv *Inventory) GrantRune(name string) bool {
	key := fold.Key(name)
	if _, ok := inv.runes[key]; ok {
		return false
	}
	inv.runes[key] = name
	return true
}

// RuneCount is the number of distinct runes ever acquired.
func (inv *Inventory) RuneCount() int {
	return len(inv.runes)
}

// Runes returns the display names of the collected runes, sorted.
func (inv *Inventory) Runes() []string {
	return sortedValues(inv.runes)
}

// AddPotion puts one more dose of name on its stack.
func (inv *Inventory) AddPotion(name string) int {
	key := fold.Key(name)
	inv.potions[key]++
	inv.names[key] = name
	return inv.potions[key]
}

// TakePotion removes one dose of name. It reports false when none is left.
func (inv *Inventory) TakePotion(name string) bool {
	key := fold.Key(name)
	if inv.potions[key] == 0 {
		return false
	}
	inv.potions[key]--
	if inv.potions[key] == 0 {
		delete(inv.potions, key)
	}
	return true
}

// PotionCount returns the doses of name held.
func (inv *Inventory) PotionCount(name string) int {
	return inv.potions[fold.Key(name)]
}

// Potions returns every non-empty stack keyed by display name.
func (inv *Inventory) Potions() map[string]int {
	out := make(map[string]int, len(inv.potions))
	for key, n := range inv.potions {
		out[inv.names[key]] = n
	}
	return out
}

// TotalPotions returns the number of doses across all stacks.
func (inv *Inventory) TotalPotions() int {
	total := 0
	for _, n := range inv.potions {
		total += n
	}
	return total
}

// Clone returns a deep copy.
func (inv *Inventory) Clone() *Inventory {
	out := New()
	for k, v := range inv.items {
		out.items[k] = v
	}
	for k, v := range inv.runes {
		out.runes[k] = v
	}
	for k, v := range inv.potions {
		out.potions[k] = v
	}
	for k, v := range inv.names {
		out.names[k] = v
	}
	return out
}

func sortedValues(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
