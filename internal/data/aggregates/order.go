package aggregates

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/phoneshop-backend/internal/data/repos"
	domainagg "github.com/yungbote/phoneshop-backend/internal/domain/aggregates"
	"github.com/yungbote/phoneshop-backend/internal/domain/orders"
	"github.com/yungbote/phoneshop-backend/internal/domain/stock"
	"github.com/yungbote/phoneshop-backend/internal/pkg/dbctx"
)

type OrderAggregateDeps struct {
	Base BaseDeps

	Orders repos.OrderRepo
	Items  repos.OrderItemRepo
	Stock  repos.StockRepo
}

type orderAggregate struct {
	deps OrderAggregateDeps
}

func NewOrderAggregate(deps OrderAggregateDeps) domainagg.OrderAggregate {
	deps.Base = deps.Base.withDefaults()
	return &orderAggregate{deps: deps}
}

func (a *orderAggregate) Contract() domainagg.Contract {
	return domainagg.OrderAggregateContract
}

// itemPlan is the id-keyed difference between in-memory and persisted lines.
type itemPlan struct {
	added    []int // indexes into the in-memory item slice
	modified []itemChange
	removed  []*orders.OrderItem
}

type itemChange struct {
	before *orders.OrderItem
	after  *orders.OrderItem
}

func (c itemChange) changed() bool {
	return c.before.PhoneID != c.after.PhoneID || c.before.Quantity != c.after.Quantity
}

func (a *orderAggregate) Save(ctx context.Context, in domainagg.SaveOrderInput) (domainagg.SaveOrderResult, error) {
	const op = "Orders.Order.Save"
	var out domainagg.SaveOrderResult
	if err := validateSaveInput(in); err != nil {
		return out, MapError(op, err)
	}
	if a.deps.Orders == nil || a.deps.Items == nil || a.deps.Stock == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "order aggregate repos not configured", nil)
	}
	log := a.deps.Base.Log.With("op", op, "order_id", in.Order.ID)

	// header is written instead of the caller's order so a rollback leaves it untouched.
	header := *in.Order
	header.Items = nil
	var createdItems []*orders.OrderItem
	var plan itemPlan

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		out = domainagg.SaveOrderResult{}
		createdItems = nil

		inserted := header.ID == 0
		if inserted {
			if header.SecureID == uuid.Nil {
				header.SecureID = uuid.New()
			}
			if header.Status == "" {
				header.Status = orders.StatusNew
			}
			if err := a.deps.Orders.Create(dbc, &header); err != nil {
				return err
			}
		} else {
			n, err := a.deps.Orders.UpdateHeader(dbc, &header)
			if err != nil {
				return err
			}
			if err := RequireRowsAffected(n, fmt.Sprintf("order %d", header.ID)); err != nil {
				return err
			}
		}

		var persisted []*orders.OrderItem
		if !inserted {
			var err error
			persisted, err = a.deps.Items.ListByOrderID(dbc, header.ID)
			if err != nil {
				return err
			}
		}

		var err error
		plan, err = diffItems(header.ID, in.Order.Items, persisted)
		if err != nil {
			return err
		}
		touched := touchedPhoneIDs(in.Order.Items, plan)
		locked, err := a.deps.Stock.LockByPhoneIDs(dbc, touched)
		if err != nil {
			return err
		}
		for _, phoneID := range touched {
			if err := RequireAvailable(locked[phoneID], phoneID, 0); err != nil {
				return err
			}
		}
		if err := checkAvailability(locked, in.Order.Items, plan); err != nil {
			return err
		}
		deltas := reservationDeltas(in.Order.Items, plan)
		phoneIDs := sortedPhoneIDs(deltas)

		if len(plan.added) > 0 {
			rows := make([]*orders.OrderItem, 0, len(plan.added))
			for _, idx := range plan.added {
				src := in.Order.Items[idx]
				rows = append(rows, &orders.OrderItem{OrderID: header.ID, PhoneID: src.PhoneID, Quantity: src.Quantity})
			}
			createdItems, err = a.deps.Items.Create(dbc, rows)
			if err != nil {
				return err
			}
			for _, it := range createdItems {
				out.InsertedItemIDs = append(out.InsertedItemIDs, it.ID)
			}
		}
		if len(plan.removed) > 0 {
			ids := make([]int64, 0, len(plan.removed))
			for _, it := range plan.removed {
				ids = append(ids, it.ID)
			}
			if err := a.deps.Items.DeleteByIDs(dbc, ids); err != nil {
				return err
			}
			out.RemovedItemIDs = ids
		}
		for _, c := range plan.modified {
			if !c.changed() {
				continue
			}
			if err := a.deps.Items.UpdateFields(dbc, c.before.ID, map[string]interface{}{
				"phone_id": c.after.PhoneID,
				"quantity": c.after.Quantity,
			}); err != nil {
				return err
			}
			out.UpdatedItemIDs = append(out.UpdatedItemIDs, c.before.ID)
		}

		for _, phoneID := range phoneIDs {
			if err := a.deps.Stock.Reserve(dbc, phoneID, deltas[phoneID]); err != nil {
				return err
			}
		}

		out.OrderID = header.ID
		out.Inserted = inserted
		out.ReservedDeltas = deltas
		return nil
	})
	if err != nil {
		return domainagg.SaveOrderResult{}, err
	}

	// Committed: publish generated ids onto the caller's order.
	if out.Inserted {
		in.Order.ID = header.ID
		in.Order.SecureID = header.SecureID
		in.Order.Status = header.Status
		in.Order.CreatedAt = header.CreatedAt
	}
	in.Order.UpdatedAt = header.UpdatedAt
	for i, idx := range plan.added {
		if i < len(createdItems) {
			in.Order.Items[idx].ID = createdItems[i].ID
		}
	}
	for _, it := range in.Order.Items {
		it.OrderID = header.ID
	}
	for phoneID, d := range out.ReservedDeltas {
		a.deps.Base.Hooks.ObserveReservation(phoneID, d)
	}
	log.Debug("order saved",
		"order_id", out.OrderID,
		"inserted", out.Inserted,
		"items_added", len(out.InsertedItemIDs),
		"items_updated", len(out.UpdatedItemIDs),
		"items_removed", len(out.RemovedItemIDs),
	)
	return out, nil
}

func validateSaveInput(in domainagg.SaveOrderInput) error {
	o := in.Order
	if o == nil {
		return ValidationError("order is required")
	}
	if o.ID < 0 {
		return ValidationError(fmt.Sprintf("invalid order id %d", o.ID))
	}
	if o.ID != 0 {
		if err := RequireStatus(orders.Status(strings.TrimSpace(string(o.Status)))); err != nil {
			return err
		}
	}
	seen := make(map[int64]bool, len(o.Items))
	for i, it := range o.Items {
		if it == nil {
			return ValidationError(fmt.Sprintf("item %d is nil", i))
		}
		if it.ID < 0 {
			return ValidationError(fmt.Sprintf("item %d has invalid id %d", i, it.ID))
		}
		if it.PhoneID <= 0 {
			return ValidationError(fmt.Sprintf("item %d has no phone", i))
		}
		if it.Quantity <= 0 {
			return ValidationError(fmt.Sprintf("item %d quantity must be positive, got %d", i, it.Quantity))
		}
		if it.ID != 0 {
			if seen[it.ID] {
				return ValidationError(fmt.Sprintf("item id %d appears twice", it.ID))
			}
			seen[it.ID] = true
		}
	}
	return nil
}

func diffItems(orderID int64, current []*orders.OrderItem, persisted []*orders.OrderItem) (itemPlan, error) {
	var plan itemPlan
	byID := make(map[int64]*orders.OrderItem, len(persisted))
	for _, it := range persisted {
		byID[it.ID] = it
	}
	kept := make(map[int64]bool, len(current))
	for i, it := range current {
		if it.ID == 0 {
			plan.added = append(plan.added, i)
			continue
		}
		before, ok := byID[it.ID]
		if !ok {
			return itemPlan{}, InvariantError(fmt.Sprintf("item %d does not belong to order %d", it.ID, orderID))
		}
		kept[it.ID] = true
		plan.modified = append(plan.modified, itemChange{before: before, after: it})
	}
	for _, it := range persisted {
		if !kept[it.ID] {
			plan.removed = append(plan.removed, it)
		}
	}
	return plan, nil
}

// checkAvailability replays the plan against the locked rows in order: new
// lines claim stock first, removed lines then release theirs, and modified
// lines apply their change last. A new line is never paid for by a release in
// the same save.
func checkAvailability(locked map[int64]*stock.Stock, current []*orders.OrderItem, plan itemPlan) error {
	avail := make(map[int64]int64, len(locked))
	for phoneID, row := range locked {
		avail[phoneID] = row.Available()
	}
	claim := func(phoneID, qty int64) error {
		if avail[phoneID] < qty {
			return &orders.InsufficientStockError{PhoneID: phoneID, Requested: qty, Available: avail[phoneID]}
		}
		avail[phoneID] -= qty
		return nil
	}
	for _, idx := range plan.added {
		it := current[idx]
		if err := claim(it.PhoneID, it.Quantity); err != nil {
			return err
		}
	}
	for _, it := range plan.removed {
		avail[it.PhoneID] += it.Quantity
	}
	for _, c := range plan.modified {
		if !c.changed() {
			continue
		}
		if c.before.PhoneID != c.after.PhoneID {
			avail[c.before.PhoneID] += c.before.Quantity
			if err := claim(c.after.PhoneID, c.after.Quantity); err != nil {
				return err
			}
			continue
		}
		d := c.after.Quantity - c.before.Quantity
		if d < 0 {
			avail[c.after.PhoneID] -= d
			continue
		}
		if err := claim(c.after.PhoneID, d); err != nil {
			return err
		}
	}
	return nil
}

// touchedPhoneIDs lists every phone whose reservation a plan reads or moves,
// including phones whose changes net to zero.
func touchedPhoneIDs(current []*orders.OrderItem, plan itemPlan) []int64 {
	set := map[int64]int64{}
	for _, idx := range plan.added {
		set[current[idx].PhoneID] = 1
	}
	for _, it := range plan.removed {
		set[it.PhoneID] = 1
	}
	for _, c := range plan.modified {
		if c.changed() {
			set[c.before.PhoneID] = 1
			set[c.after.PhoneID] = 1
		}
	}
	return sortedPhoneIDs(set)
}

// reservationDeltas nets the per-phone reservation change of a plan. Phones
// whose changes cancel out are dropped.
func reservationDeltas(current []*orders.OrderItem, plan itemPlan) map[int64]int64 {
	deltas := map[int64]int64{}
	for _, idx := range plan.added {
		it := current[idx]
		deltas[it.PhoneID] += it.Quantity
	}
	for _, it := range plan.removed {
		deltas[it.PhoneID] -= it.Quantity
	}
	for _, c := range plan.modified {
		deltas[c.before.PhoneID] -= c.before.Quantity
		deltas[c.after.PhoneID] += c.after.Quantity
	}
	for phoneID, d := range deltas {
		if d == 0 {
			delete(deltas, phoneID)
		}
	}
	return deltas
}

func sortedPhoneIDs(deltas map[int64]int64) []int64 {
	ids := make([]int64, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
