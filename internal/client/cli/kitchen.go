package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gmkitchen/internal/client/services"
	"github.com/dmitrijs2005/gmkitchen/internal/notebook"
)

var errUsage = errors.New("usage")

// AddItem handles "add <location> <name...>".
func (a *App) AddItem(ctx context.Context, args []string) error {
	if len(args) < 2 {
		a.println("Usage: add <cupboard|fridge|freezer> <name>")
		return errUsage
	}
	loc, err := a.location(args[0])
	if err != nil {
		return err
	}

	item, out, err := a.kitchen.Add(ctx, loc, strings.Join(args[1:], " "))
	if err != nil {
		return a.editFailed(ctx, err)
	}
	a.printf("Added %s to %s. %s\n", item.Name, loc.Title(), out.Message)
	return nil
}

// RemoveItem handles "remove <location> <number|id>". Numbers refer to the
// positions printed by list.
func (a *App) RemoveItem(ctx context.Context, args []string) error {
	if len(args) != 2 {
		a.println("Usage: remove <cupboard|fridge|freezer> <number>")
		return errUsage
	}
	loc, err := a.location(args[0])
	if err != nil {
		return err
	}

	items, err := a.kitchen.List(ctx, loc)
	if err != nil {
		return a.editFailed(ctx, err)
	}
	item, ok := pickItem(items, args[1])
	if !ok {
		a.printf("No item %q in %s.\n", args[1], loc.Title())
		return notebook.ErrItemNotFound
	}

	out, err := a.kitchen.Remove(ctx, loc, item.ID)
	if err != nil {
		return a.editFailed(ctx, err)
	}
	a.printf("Removed %s. %s\n", item.Name, out.Message)
	return nil
}

func pickItem(items []notebook.Item, ref string) (notebook.Item, bool) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(items) {
			return notebook.Item{}, false
		}
		return items[n-1], true
	}
	for _, it := range items {
		if it.ID == ref {
			return it, true
		}
	}
	return notebook.Item{}, false
}

// List prints one location, or all of them when args is empty.
func (a *App) List(ctx context.Context, args []string) error {
	locs := notebook.Locations
	if len(args) > 0 {
		loc, err := a.location(args[0])
		if err != nil {
			return err
		}
		locs = []notebook.Location{loc}
	}

	for _, loc := range locs {
		items, err := a.kitchen.List(ctx, loc)
		if err != nil {
			return a.editFailed(ctx, err)
		}
		a.printf("%s (%d)\n", loc.Title(), len(items))
		if len(items) == 0 {
			a.println("  nothing here")
			continue
		}
		for i, it := range items {
			mark := ""
			if need, err := a.shopping.Contains(ctx, it.Name); err == nil && need {
				mark = " [shopping list]"
			}
			a.printf("  %d. %s%s\n", i+1, it.Name, mark)
		}
	}
	return nil
}

// Clear empties the whole notebook after asking first.
func (a *App) Clear(ctx context.Context) error {
	ok, err := Confirm(a.reader, "Remove everything from every location?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.println("Nothing changed.")
		return nil
	}

	out, err := a.kitchen.Clear(ctx)
	if err != nil {
		return a.editFailed(ctx, err)
	}
	a.println(out.Message)
	return nil
}

// Need toggles a name on the shopping list.
func (a *App) Need(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: need <name>")
		return errUsage
	}
	name := strings.Join(args, " ")
	added, err := a.shopping.Toggle(ctx, name)
	if err != nil {
		a.println("Could not update the shopping list:", err)
		return err
	}
	if added {
		a.printf("%s added to the shopping list.\n", name)
	} else {
		a.printf("%s taken off the shopping list.\n", name)
	}
	return nil
}

// Shop prints the shopping list, or handles "shop remove <name>".
func (a *App) Shop(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if args[0] != "remove" || len(args) < 2 {
			a.println("Usage: shop [remove <name>]")
			return errUsage
		}
		if err := a.shopping.Remove(ctx, strings.Join(args[1:], " ")); err != nil {
			a.println("Could not update the shopping list:", err)
			return err
		}
		a.println("Removed from the shopping list.")
		return nil
	}

	names, err := a.shopping.List(ctx)
	if err != nil {
		a.println("Could not read the shopping list:", err)
		return err
	}
	if len(names) == 0 {
		a.println("The shopping list is empty.")
		return nil
	}
	a.println("Shopping list:")
	for _, n := range names {
		a.printf("  - %s\n", n)
	}
	return nil
}

// Sync reconciles the notebook with the account.
func (a *App) Sync(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println("Log in to sync. Your notebook is saved on this device.")
		return nil
	}
	a.reconcile(ctx)
	return nil
}

// Status prints who is logged in, connectivity and notebook details.
func (a *App) Status(ctx context.Context) error {
	user := a.user()
	if user == "" {
		user = "nobody"
	}
	a.printf("User: %s\nConnection: %s\n", user, a.Mode())
	if a.breaker != nil {
		a.printf("Sync circuit: %s\n", a.breaker.State())
	}

	doc, err := a.kitchen.Document(ctx)
	if err != nil {
		return a.editFailed(ctx, err)
	}
	a.printf("Notebook: version %d, %d items, updated %s\n", doc.Version, doc.Inventory.Len(), doc.UpdatedAt)
	return nil
}

func (a *App) location(s string) (notebook.Location, error) {
	loc, err := notebook.ParseLocation(s)
	if err != nil {
		a.printf("Unknown location %q. Use cupboard, fridge or freezer.\n", s)
		return "", err
	}
	return loc, nil
}

// editFailed reports errors that left the notebook unchanged.
func (a *App) editFailed(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, notebook.ErrEmptyName):
		a.println("Give the item a name.")
	case errors.Is(err, notebook.ErrItemNotFound):
		a.println("That item is not there any more.")
	default:
		a.log.Error(ctx, "notebook operation failed", "error", err)
		a.println(fmt.Sprintf("Could not save on this device: %v", err))
	}
	return err
}

var _ kitchenAPI = (*services.KitchenService)(nil)
var _ shoppingAPI = (*services.ShoppingList)(nil)
var _ authAPI = (*services.AuthService)(nil)
