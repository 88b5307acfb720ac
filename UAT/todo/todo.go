// Package todo holds the collaborator shapes of a small to-do list app and a
// controller that drives them. Tests exercise the controller against doubles
// generated by spygen.
package todo

import (
	"errors"
	"fmt"
)

// Coordinator moves between screens.
type Coordinator interface {
	ShowDetails(item Item)
	ShowList()
	Dismiss(animated bool)
}

// Hooks are optional callbacks the controller reports to.
type Hooks struct {
	Loaded  func(count int)
	Failed  func(err error)
	Confirm func(prompt string) bool
}

// Item is one entry in the list.
type Item struct {
	ID    int
	Title string
	Done  bool
}

// ListController wires the list screen to its collaborators.
type ListController struct {
	repo        TodoRepository
	store       PersistenceManager
	view        ListViewState
	coordinator Coordinator
	text        Localizer
	hooks       Hooks
}

// NewListController creates a controller. Nil hooks are skipped.
func NewListController(
	repo TodoRepository,
	store PersistenceManager,
	view ListViewState,
	coordinator Coordinator,
	text Localizer,
	hooks Hooks,
) *ListController {
	return &ListController{
		repo:        repo,
		store:       store,
		view:        view,
		coordinator: coordinator,
		text:        text,
		hooks:       hooks,
	}
}

// Add stores a new item, persists the store, and refreshes the view.
func (c *ListController) Add(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}

	c.repo.SetItem(Item{ID: c.nextID(), Title: title})
	c.store.Save(c.reportFailure)
	c.refresh()

	return nil
}

// Close dismisses the list, asking for confirmation when items are still open.
func (c *ListController) Close() {
	if c.openCount() > 0 && c.hooks.Confirm != nil && !c.hooks.Confirm(c.text.Localized("list.close.confirm")) {
		return
	}

	c.coordinator.Dismiss(true)
}

// Complete marks item done, or removes it when remove is set.
func (c *ListController) Complete(item Item, remove bool) error {
	if remove {
		err := c.repo.Remove(item)
		if err != nil {
			return fmt.Errorf("failed to remove %q: %w", item.Title, err)
		}
	} else {
		item.Done = true
		c.repo.SetItem(item)
	}

	c.refresh()

	return nil
}

// Load populates the view from the repository.
func (c *ListController) Load() {
	c.store.Load(c.reportFailure)
	c.refresh()

	if c.hooks.Loaded != nil {
		c.hooks.Loaded(len(c.view.Items()))
	}
}

// Select shows the details of item.
func (c *ListController) Select(item Item) {
	c.coordinator.ShowDetails(item)
}

// Sync pulls records of entity from the store into the repository.
// Records without a title are skipped.
func (c *ListController) Sync(entity string, predicate *Predicate) {
	c.store.Fetch(entity, predicate, func(records []Record, err error) {
		if err != nil {
			c.reportFailure(err)

			return
		}

		for _, record := range records {
			title, ok := record.Fields["title"].(string)
			if !ok || title == "" {
				continue
			}

			c.repo.SetItem(Item{ID: c.nextID(), Title: title})
		}

		c.refresh()
	})
}

func (c *ListController) nextID() int {
	highest := 0

	for _, item := range c.repo.FetchItems() {
		highest = max(highest, item.ID)
	}

	return highest + 1
}

func (c *ListController) openCount() int {
	open := 0

	for _, item := range c.view.Items() {
		if !item.Done {
			open++
		}
	}

	return open
}

func (c *ListController) refresh() {
	items := c.repo.FetchItems()

	c.view.SetItems(items)
	c.view.SetTitle(c.text.Localized("list.title", len(items)))
}

func (c *ListController) reportFailure(err error) {
	if err != nil && c.hooks.Failed != nil {
		c.hooks.Failed(err)
	}
}

// ListViewState is the observable state of the list screen.
type ListViewState interface {
	Title() string
	SetTitle(title string)
	Items() []Item
	SetItems(items []Item)
}

// Localizer looks up display strings.
type Localizer interface {
	Localized(key string, args ...any) string
}

// PersistenceManager is a managed object store with asynchronous completion.
type PersistenceManager interface {
	Insert(entity string, completion func(Record, error))
	InsertTransient(entity string) Record
	Copy(record Record, completion func(Record, error))
	Delete(record Record, completion func(error))
	Fetch(entity string, predicate *Predicate, completion func([]Record, error))
	Load(completion func(error))
	Save(completion func(error))
	Reset()
}

// Predicate narrows a fetch to records whose Key field equals Value.
type Predicate struct {
	Key   string
	Value any
}

// Record is one managed object.
type Record struct {
	ID     string
	Fields map[string]any
}

// TodoRepository stores the list's items.
type TodoRepository interface {
	FetchItems() []Item
	SetItem(item Item)
	Remove(item Item) error
}

// ErrEmptyTitle is returned when adding an item without a title.
var ErrEmptyTitle = errors.New("item title is empty")
