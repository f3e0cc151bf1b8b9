package recipe

import (
	"fmt"
	"sort"
	"strings"
)

// UnknownRecipeError is returned when a recipe name is not registered.
// It carries the list of valid names for the caller's error message.
type UnknownRecipeError struct {
	Name      string
	Available []string
}

func (e *UnknownRecipeError) Error() string {
	return fmt.Sprintf("recipe %q not found, available: %s", e.Name, strings.Join(e.Available, ", "))
}

// Overrides are optional per-job adjustments applied on top of a recipe's
// defaults. Zero values leave the default untouched.
type Overrides struct {
	Duration   float64
	Resolution string
	FPS        int
}

// Registry maps recipe names to their constructors. It is built once at
// startup and passed to whatever needs it; it holds no mutable state after
// registration, so concurrent lookups need no locking.
type Registry struct {
	recipes map[string]func() Recipe
}

// NewRegistry creates a registry with all built-in recipes registered.
func NewRegistry() *Registry {
	r := &Registry{recipes: make(map[string]func() Recipe)}
	for _, ctor := range []func() Recipe{
		brainrotRecipe,
		newsRecipe,
		storiesRecipe,
		ambientRecipe,
		loop10hRecipe,
	} {
		r.Register(ctor)
	}
	return r
}

// Register adds a recipe constructor keyed by the recipe's name.
func (r *Registry) Register(ctor func() Recipe) {
	r.recipes[ctor().Name] = ctor
}

// Get returns a recipe by name with overrides applied.
func (r *Registry) Get(name string, over Overrides) (Recipe, error) {
	ctor, ok := r.recipes[name]
	if !ok {
		return Recipe{}, &UnknownRecipeError{Name: name, Available: r.List()}
	}

	rec := ctor()
	if over.Duration > 0 {
		rec.Duration = over.Duration
	}
	if over.Resolution != "" {
		rec.Resolution = over.Resolution
	}
	if over.FPS > 0 {
		rec.FPS = over.FPS
	}
	return rec, nil
}

// Exists reports whether a recipe name is registered.
func (r *Registry) Exists(name string) bool {
	_, ok := r.recipes[name]
	return ok
}

// List returns all registered recipe names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.recipes))
	for name := range r.recipes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
