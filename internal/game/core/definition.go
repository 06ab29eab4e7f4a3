package core

import (
	"fmt"
	"sort"
)

// CardType classifies cards by their rules role.
type CardType int

const (
	TypeScheme CardType = iota
	TypeProject
	TypeMinion
	TypeRitual
	TypeSpell
	TypeArtifact
	TypeEvocation
	TypeAlly
	TypeRiftcaller
	TypeChapter
	TypeGameModifier
)

var cardTypeNames = map[CardType]string{
	TypeScheme:       "scheme",
	TypeProject:      "project",
	TypeMinion:       "minion",
	TypeRitual:       "ritual",
	TypeSpell:        "spell",
	TypeArtifact:     "artifact",
	TypeEvocation:    "evocation",
	TypeAlly:         "ally",
	TypeRiftcaller:   "riftcaller",
	TypeChapter:      "chapter",
	TypeGameModifier: "game_modifier",
}

func (t CardType) String() string {
	if name, ok := cardTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TYPE_%d", int(t))
}

// IsIdentity reports whether the type is one of the identity cards.
func (t CardType) IsIdentity() bool {
	return t == TypeRiftcaller || t == TypeChapter
}

// CardSubtype refines a card type. Weapons are the artifact subtype that
// can defeat minions during an encounter.
type CardSubtype int

const (
	SubtypeNone CardSubtype = iota
	SubtypeWeapon
)

// Resonance is the damage-type tag. A weapon can only target a minion of
// matching resonance; prismatic matches everything.
type Resonance int

const (
	ResonanceMortal Resonance = iota
	ResonanceInfernal
	ResonanceAstral
	ResonancePrismatic
)

var resonanceNames = map[Resonance]string{
	ResonanceMortal:    "mortal",
	ResonanceInfernal:  "infernal",
	ResonanceAstral:    "astral",
	ResonancePrismatic: "prismatic",
}

func (r Resonance) String() string {
	if name, ok := resonanceNames[r]; ok {
		return name
	}
	return fmt.Sprintf("RESONANCE_%d", int(r))
}

// Matches reports whether a weapon with resonance r can target a minion
// with resonance target.
func (r Resonance) Matches(target Resonance) bool {
	return r == ResonancePrismatic || r == target
}

// School is the deck-building faction tag.
type School int

const (
	SchoolNeutral School = iota
	SchoolLaw
	SchoolShadow
	SchoolPrimal
	SchoolPact
	SchoolBeyond
)

// CustomCost is an arbitrary additional cost on a card or ability.
type CustomCost struct {
	CanPay func(g *GameState, card CardID) bool
	Pay    func(g *GameState, card CardID) error
}

// Cost is the price of playing a card or activating an ability. A nil Mana
// means the card cannot be paid for with mana at all (identities, schemes
// reaching play by other means still use zero instead).
type Cost struct {
	Mana    *int
	Actions int
	Custom  *CustomCost
}

// AttackBoost is a weapon's repeatable attack purchase.
type AttackBoost struct {
	Cost  int
	Bonus int
}

// SchemePoints is a scheme's progress requirement and point award.
type SchemePoints struct {
	Progress int
	Points   int
}

// CardStats carries the numeric fields whose presence depends on card type.
// Nil means the stat does not apply.
type CardStats struct {
	Health     *int
	Shield     *int
	Breach     *int
	BaseAttack *int
	Boost      *AttackBoost
	UseCost    *int
	RazeCost   *int
	Points     *SchemePoints
}

// Ability is one ability printed on a card: display text, an activation
// cost for activated abilities (nil for triggered ones), and the delegates
// that implement it.
type Ability struct {
	Text      string
	Cost      *Cost
	Delegates []Delegate
}

// CardConfig holds definition-level toggles that do not fit the stat block.
type CardConfig struct {
	// FaceUpInPlay means the card enters play face up when played.
	FaceUpInPlay bool
}

// CardDefinition is the static description of one card. Definitions are
// immutable once registered; all mutable state lives in CardState.
type CardDefinition struct {
	Name      CardVariant
	Side      Side
	Type      CardType
	Subtype   CardSubtype
	School    School
	Resonance *Resonance
	Cost      Cost
	Stats     CardStats
	Abilities []Ability
	Config    CardConfig
}

// Ability returns the ability at the given index.
func (d *CardDefinition) Ability(index int) (*Ability, error) {
	if index < 0 || index >= len(d.Abilities) {
		return nil, fmt.Errorf("card %s has no ability %d", d.Name, index)
	}
	return &d.Abilities[index], nil
}

// IsWeapon reports whether the definition is a weapon artifact.
func (d *CardDefinition) IsWeapon() bool {
	return d.Type == TypeArtifact && d.Subtype == SubtypeWeapon
}

// ItemSlot returns the arena column a Riftcaller permanent occupies.
func (d *CardDefinition) ItemSlot() ItemSlot {
	switch d.Type {
	case TypeArtifact:
		if d.Subtype == SubtypeWeapon {
			return SlotWeapons
		}
		return SlotArtifacts
	case TypeEvocation:
		return SlotEvocations
	case TypeAlly:
		return SlotAllies
	}
	return SlotArtifacts
}

// Registry is the immutable card catalog handed to the engine at game
// creation. It is injected, never global: the engine holds a reference on
// each GameState and resolves variants through it.
type Registry struct {
	defs map[CardVariant]*CardDefinition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[CardVariant]*CardDefinition)}
}

// Register adds a definition. Registering the same variant twice is an
// error so that catalog packages catch copy-paste duplicates early.
func (r *Registry) Register(def *CardDefinition) error {
	if def == nil || def.Name == "" {
		return fmt.Errorf("registry: definition missing name")
	}
	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("registry: duplicate definition %q", def.Name)
	}
	r.defs[def.Name] = def
	return nil
}

// MustRegister adds a definition and panics on error. Catalog construction
// runs at init time where a bad definition is a programming error.
func (r *Registry) MustRegister(def *CardDefinition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Get resolves a variant to its definition.
func (r *Registry) Get(variant CardVariant) (*CardDefinition, error) {
	def, ok := r.defs[variant]
	if !ok {
		return nil, fmt.Errorf("registry: unknown card variant %q", variant)
	}
	return def, nil
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Variants returns all registered variants in sorted order.
func (r *Registry) Variants() []CardVariant {
	out := make([]CardVariant, 0, len(r.defs))
	for v := range r.defs {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
