package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

var (
	_ repository.StockBatchRepository    = (*batchRepo)(nil)
	_ repository.MovementRepository      = (*movementRepo)(nil)
	_ repository.ProductRepository       = (*productRepo)(nil)
	_ repository.LocationRepository      = (*locationRepo)(nil)
	_ repository.SalesOrderRepository    = (*salesOrderRepo)(nil)
	_ repository.PurchaseOrderRepository = (*purchaseOrderRepo)(nil)
	_ repository.TransferRepository      = (*transferRepo)(nil)
	_ repository.AdjustmentRepository    = (*adjustmentRepo)(nil)
	_ repository.OpnameRepository        = (*opnameRepo)(nil)
	_ repository.SequenceRepository      = (*sequenceRepo)(nil)
)

// lockRead toma el candado de lectura salvo que Run ya tenga el de escritura.
func (s *Store) lockRead(locked bool) func() {
	if locked {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// lockWrite toma el candado de escritura salvo que Run ya lo tenga.
func (s *Store) lockWrite(locked bool) func() {
	if locked {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// ─── StockBatch ───────────────────────────────────────────────────────────

type batchRepo struct {
	s      *Store
	locked bool
}

func (r *batchRepo) Create(_ context.Context, batch *entity.StockBatch) error {
	defer r.s.lockWrite(r.locked)()
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	r.s.batchSeq++
	batch.Seq = r.s.batchSeq
	r.s.batches[batch.ID] = cloneBatch(batch)
	return nil
}

func (r *batchRepo) Update(_ context.Context, batch *entity.StockBatch) error {
	defer r.s.lockWrite(r.locked)()
	if _, ok := r.s.batches[batch.ID]; !ok {
		return fmt.Errorf("update stock batch %s: no existe", batch.ID)
	}
	r.s.batches[batch.ID] = cloneBatch(batch)
	return nil
}

func (r *batchRepo) GetByID(_ context.Context, id string) (*entity.StockBatch, error) {
	defer r.s.lockRead(r.locked)()
	b, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	return cloneBatch(b), nil
}

func (r *batchRepo) listFIFO(productID, locationID string) []*entity.StockBatch {
	var batches []*entity.StockBatch
	for _, b := range r.s.batches {
		if b.ProductID == productID && b.LocationID == locationID {
			batches = append(batches, cloneBatch(b))
		}
	}
	sort.Slice(batches, func(i, j int) bool {
		if !batches[i].ReceivedAt.Equal(batches[j].ReceivedAt) {
			return batches[i].ReceivedAt.Before(batches[j].ReceivedAt)
		}
		return batches[i].Seq < batches[j].Seq
	})
	return batches
}

func (r *batchRepo) ListByProductLocation(_ context.Context, productID, locationID string) ([]*entity.StockBatch, error) {
	defer r.s.lockRead(r.locked)()
	return r.listFIFO(productID, locationID), nil
}

func (r *batchRepo) ListByProductLocationForUpdate(_ context.Context, productID, locationID string) ([]*entity.StockBatch, error) {
	// Run serializa las transacciones; el lock de fila queda implícito.
	defer r.s.lockRead(r.locked)()
	return r.listFIFO(productID, locationID), nil
}

func (r *batchRepo) Aggregate(_ context.Context, productID, locationID string) (*entity.StockLevel, error) {
	defer r.s.lockRead(r.locked)()
	lvl := &entity.StockLevel{ProductID: productID, LocationID: locationID}
	for _, b := range r.s.batches {
		if b.ProductID != productID {
			continue
		}
		if locationID != "" && b.LocationID != locationID {
			continue
		}
		lvl.OnHand = lvl.OnHand.Add(b.QtyOnHand)
		lvl.Allocated = lvl.Allocated.Add(b.AllocatedQty)
		lvl.Available = lvl.Available.Add(b.AvailableQty)
	}
	return lvl, nil
}

func (r *batchRepo) ListLevelsByLocation(_ context.Context, locationID string) ([]*entity.StockLevel, error) {
	defer r.s.lockRead(r.locked)()
	byProduct := map[string]*entity.StockLevel{}
	for _, b := range r.s.batches {
		if b.LocationID != locationID {
			continue
		}
		lvl, ok := byProduct[b.ProductID]
		if !ok {
			lvl = &entity.StockLevel{ProductID: b.ProductID, LocationID: locationID}
			byProduct[b.ProductID] = lvl
		}
		lvl.OnHand = lvl.OnHand.Add(b.QtyOnHand)
		lvl.Allocated = lvl.Allocated.Add(b.AllocatedQty)
		lvl.Available = lvl.Available.Add(b.AvailableQty)
	}
	var levels []*entity.StockLevel
	for _, lvl := range byProduct {
		levels = append(levels, lvl)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].ProductID < levels[j].ProductID })
	return levels, nil
}

func (r *batchRepo) ListBelowThreshold(_ context.Context) ([]*entity.LowStockItem, error) {
	defer r.s.lockRead(r.locked)()
	var items []*entity.LowStockItem
	for _, p := range r.s.products {
		if !p.LowStockThreshold.IsPositive() {
			continue
		}
		it := &entity.LowStockItem{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Threshold: p.LowStockThreshold,
		}
		for _, b := range r.s.batches {
			if b.ProductID == p.ID {
				it.OnHand = it.OnHand.Add(b.QtyOnHand)
				it.Available = it.Available.Add(b.AvailableQty)
			}
		}
		if it.OnHand.LessThanOrEqual(p.LowStockThreshold) {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].SKU < items[j].SKU })
	return items, nil
}

// ─── Movement ─────────────────────────────────────────────────────────────

type movementRepo struct {
	s      *Store
	locked bool
}

func (r *movementRepo) Append(_ context.Context, m *entity.Movement) error {
	defer r.s.lockWrite(r.locked)()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	c := *m
	r.s.movements = append(r.s.movements, &c)
	return nil
}

func (r *movementRepo) ListByProduct(_ context.Context, productID, locationID string, limit int) ([]*entity.Movement, error) {
	defer r.s.lockRead(r.locked)()
	var list []*entity.Movement
	for _, m := range r.s.movements {
		if m.ProductID != productID {
			continue
		}
		if locationID != "" && m.LocationID != locationID {
			continue
		}
		c := *m
		list = append(list, &c)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *movementRepo) SumByProductLocation(_ context.Context, productID, locationID string) (decimal.Decimal, error) {
	defer r.s.lockRead(r.locked)()
	sum := decimal.Zero
	for _, m := range r.s.movements {
		if m.ProductID == productID && m.LocationID == locationID {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum, nil
}

// ─── Product ──────────────────────────────────────────────────────────────

type productRepo struct {
	s      *Store
	locked bool
}

func (r *productRepo) Create(_ context.Context, product *entity.Product) error {
	defer r.s.lockWrite(r.locked)()
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	for _, p := range r.s.products {
		if p.SKU == product.SKU {
			return fmt.Errorf("sku %s: %w", product.SKU, domain.ErrDuplicate)
		}
	}
	r.s.products[product.ID] = cloneProduct(product)
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.s.lockRead(r.locked)()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

func (r *productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	defer r.s.lockRead(r.locked)()
	for _, p := range r.s.products {
		if p.SKU == sku {
			return cloneProduct(p), nil
		}
	}
	return nil, nil
}

func (r *productRepo) Update(_ context.Context, product *entity.Product) error {
	defer r.s.lockWrite(r.locked)()
	if _, ok := r.s.products[product.ID]; !ok {
		return fmt.Errorf("producto %s: %w", product.ID, domain.ErrNotFound)
	}
	r.s.products[product.ID] = cloneProduct(product)
	return nil
}

func (r *productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	defer r.s.lockRead(r.locked)()
	var products []*entity.Product
	for _, p := range r.s.products {
		products = append(products, cloneProduct(p))
	}
	sort.Slice(products, func(i, j int) bool { return products[i].SKU < products[j].SKU })
	return paginate(products, limit, offset), nil
}

// ─── Location ─────────────────────────────────────────────────────────────

type locationRepo struct {
	s      *Store
	locked bool
}

func (r *locationRepo) Create(_ context.Context, location *entity.Location) error {
	defer r.s.lockWrite(r.locked)()
	if location.ID == "" {
		location.ID = uuid.New().String()
	}
	r.s.locations[location.ID] = cloneLocation(location)
	return nil
}

func (r *locationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	defer r.s.lockRead(r.locked)()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	return cloneLocation(l), nil
}

func (r *locationRepo) Update(_ context.Context, location *entity.Location) error {
	defer r.s.lockWrite(r.locked)()
	if _, ok := r.s.locations[location.ID]; !ok {
		return fmt.Errorf("bodega %s: %w", location.ID, domain.ErrNotFound)
	}
	r.s.locations[location.ID] = cloneLocation(location)
	return nil
}

func (r *locationRepo) List(_ context.Context, limit, offset int) ([]*entity.Location, error) {
	defer r.s.lockRead(r.locked)()
	var locations []*entity.Location
	for _, l := range r.s.locations {
		locations = append(locations, cloneLocation(l))
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i].Name < locations[j].Name })
	return paginate(locations, limit, offset), nil
}

// ─── SalesOrder ───────────────────────────────────────────────────────────

type salesOrderRepo struct {
	s      *Store
	locked bool
}

func (r *salesOrderRepo) Create(_ context.Context, order *entity.SalesOrder) error {
	defer r.s.lockWrite(r.locked)()
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Lines {
		if order.Lines[i].ID == "" {
			order.Lines[i].ID = uuid.New().String()
		}
		order.Lines[i].OrderID = order.ID
	}
	r.s.salesOrders[order.ID] = cloneSalesOrder(order)
	return nil
}

func (r *salesOrderRepo) GetByID(_ context.Context, id string) (*entity.SalesOrder, error) {
	defer r.s.lockRead(r.locked)()
	o, ok := r.s.salesOrders[id]
	if !ok {
		return nil, nil
	}
	return cloneSalesOrder(o), nil
}

func (r *salesOrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *salesOrderRepo) Update(_ context.Context, order *entity.SalesOrder) error {
	defer r.s.lockWrite(r.locked)()
	if _, ok := r.s.salesOrders[order.ID]; !ok {
		return fmt.Errorf("update sales order %s: no existe", order.ID)
	}
	r.s.salesOrders[order.ID] = cloneSalesOrder(order)
	return nil
}

func (r *salesOrderRepo) List(_ context.Context, status entity.SalesOrderStatus, limit, offset int) ([]*entity.SalesOrder, error) {
	defer r.s.lockRead(r.locked)()
	var orders []*entity.SalesOrder
	for _, o := range r.s.salesOrders {
		if status != "" && o.Status != status {
			continue
		}
		orders = append(orders, cloneSalesOrder(o))
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].DocNumber > orders[j].DocNumber })
	return paginate(orders, limit, offset), nil
}

// ─── PurchaseOrder ────────────────────────────────────────────────────────

type purchaseOrderRepo struct {
	s      *Store
	locked bool
}

func (r *purchaseOrderRepo) Create(_ context.Context, order *entity.PurchaseOrder) error {
	defer r.s.lockWrite(r.locked)()
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Lines {
		if order.Lines[i].ID == "" {
			order.Lines[i].ID = uuid.New().String()
		}
		order.Lines[i].OrderID = order.ID
	}
	r.s.purchaseOrders[order.ID] = clonePurchaseOrder(order)
	return nil
}

func (r *purchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	defer r.s.lockRead(r.locked)()
	o, ok := r.s.purchaseOrders[id]
	if !ok {
		return nil, nil
	}
	return clonePurchaseOrder(o), nil
}

func (r *purchaseOrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *purchaseOrderRepo) Update(_ context.Context, order *entity.PurchaseOrder) error {
	defer r.s.lockWrite(r.locked)()
	if _, ok := r.s.purchaseOrders[order.ID]; !ok {
		return fmt.Errorf("update purchase order %s: no existe", order.ID)
	}
	r.s.purchaseOrders[order.ID] = clonePurchaseOrder(order)
	return nil
}

func (r *purchaseOrderRepo) List(_ context.Context, status entity.PurchaseOrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	defer r.s.lockRead(r.locked)()
	var orders []*entity.PurchaseOrder
	for _, o := range r.s.purchaseOrders {
		if status != "" && o.Status != status {
			continue
		}
		orders = append(orders, clonePurchaseOrder(o))
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].DocNumber > orders[j].DocNumber })
	return paginate(orders, limit, offset), nil
}

// ─── Transfer ─────────────────────────────────────────────────────────────

type transferRepo struct {
	s      *Store
	locked bool
}

func (r *transferRepo) Create(_ context.Context, transfer *entity.StockTransfer) error {
	defer r.s.lockWrite(r.locked)()
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	for i := range transfer.Lines {
		if transfer.Lines[i].ID == "" {
			transfer.Lines[i].ID = uuid.New().String()
		}
		transfer.Lines[i].TransferID = transfer.ID
	}
	r.s.transfers[transfer.ID] = cloneTransfer(transfer)
	return nil
}

func (r *transferRepo) GetByID(_ context.Context, id string) (*entity.StockTransfer, error) {
	defer r.s.lockRead(r.locked)()
	t, ok := r.s.transfers[id]
	if !ok {
		return nil, nil
	}
	return cloneTransfer(t), nil
}

func (r *transferRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockTransfer, error) {
	return r.GetByID(ctx, id)
}

func (r *transferRepo) Update(_ context.Context, transfer *entity.StockTransfer) error {
	defer r.s.lockWrite(r.locked)()
	if _, ok := r.s.transfers[transfer.ID]; !ok {
		return fmt.Errorf("update transfer %s: no existe", transfer.ID)
	}
	r.s.transfers[transfer.ID] = cloneTransfer(transfer)
	return nil
}

func (r *transferRepo) List(_ context.Context, status entity.TransferStatus, limit, offset int) ([]*entity.StockTransfer, error) {
	defer r.s.lockRead(r.locked)()
	var transfers []*entity.StockTransfer
	for _, t := range r.s.transfers {
		if status != "" && t.Status != status {
			continue
		}
		transfers = append(transfers, cloneTransfer(t))
	}
	sort.Slice(transfers, func(i, j int) bool { return transfers[i].DocNumber > transfers[j].DocNumber })
	return paginate(transfers, limit, offset), nil
}

// ─── Adjustment ───────────────────────────────────────────────────────────

type adjustmentRepo struct {
	s      *Store
	locked bool
}

func (r *adjustmentRepo) Create(_ context.Context, adjustment *entity.StockAdjustment) error {
	defer r.s.lockWrite(r.locked)()
	if adjustment.ID == "" {
		adjustment.ID = uuid.New().String()
	}
	r.s.adjustments[adjustment.ID] = cloneAdjustment(adjustment)
	return nil
}

func (r *adjustmentRepo) GetByID(_ context.Context, id string) (*entity.StockAdjustment, error) {
	defer r.s.lockRead(r.locked)()
	a, ok := r.s.adjustments[id]
	if !ok {
		return nil, nil
	}
	return cloneAdjustment(a), nil
}

func (r *adjustmentRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockAdjustment, error) {
	return r.GetByID(ctx, id)
}

func (r *adjustmentRepo) MarkReversed(_ context.Context, id, reversedByID string) error {
	defer r.s.lockWrite(r.locked)()
	a, ok := r.s.adjustments[id]
	if !ok || a.ReversedByID != "" {
		return fmt.Errorf("mark adjustment reversed %s: ya reversado o no existe", id)
	}
	a.ReversedByID = reversedByID
	return nil
}

func (r *adjustmentRepo) List(_ context.Context, productID, locationID string, limit, offset int) ([]*entity.StockAdjustment, error) {
	defer r.s.lockRead(r.locked)()
	var adjustments []*entity.StockAdjustment
	for _, a := range r.s.adjustments {
		if productID != "" && a.ProductID != productID {
			continue
		}
		if locationID != "" && a.LocationID != locationID {
			continue
		}
		adjustments = append(adjustments, cloneAdjustment(a))
	}
	sort.Slice(adjustments, func(i, j int) bool { return adjustments[i].DocNumber > adjustments[j].DocNumber })
	return paginate(adjustments, limit, offset), nil
}

// ─── Opname ───────────────────────────────────────────────────────────────

type opnameRepo struct {
	s      *Store
	locked bool
}

func (r *opnameRepo) Create(_ context.Context, opname *entity.StockOpname) error {
	defer r.s.lockWrite(r.locked)()
	if opname.ID == "" {
		opname.ID = uuid.New().String()
	}
	for i := range opname.Items {
		if opname.Items[i].ID == "" {
			opname.Items[i].ID = uuid.New().String()
		}
		opname.Items[i].OpnameID = opname.ID
	}
	r.s.opnames[opname.ID] = cloneOpname(opname)
	return nil
}

func (r *opnameRepo) GetByID(_ context.Context, id string) (*entity.StockOpname, error) {
	defer r.s.lockRead(r.locked)()
	o, ok := r.s.opnames[id]
	if !ok {
		return nil, nil
	}
	return cloneOpname(o), nil
}

func (r *opnameRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockOpname, error) {
	return r.GetByID(ctx, id)
}

func (r *opnameRepo) Update(_ context.Context, opname *entity.StockOpname) error {
	defer r.s.lockWrite(r.locked)()
	if _, ok := r.s.opnames[opname.ID]; !ok {
		return fmt.Errorf("update opname %s: no existe", opname.ID)
	}
	r.s.opnames[opname.ID] = cloneOpname(opname)
	return nil
}

func (r *opnameRepo) GetItem(_ context.Context, itemID string) (*entity.OpnameItem, error) {
	defer r.s.lockRead(r.locked)()
	for _, o := range r.s.opnames {
		for i := range o.Items {
			if o.Items[i].ID == itemID {
				it := cloneOpnameItem(&o.Items[i])
				return &it, nil
			}
		}
	}
	return nil, nil
}

func (r *opnameRepo) UpdateItem(_ context.Context, item *entity.OpnameItem) error {
	defer r.s.lockWrite(r.locked)()
	for _, o := range r.s.opnames {
		for i := range o.Items {
			if o.Items[i].ID == item.ID {
				o.Items[i] = cloneOpnameItem(item)
				return nil
			}
		}
	}
	return fmt.Errorf("update opname item %s: no existe", item.ID)
}

func (r *opnameRepo) List(_ context.Context, status entity.OpnameStatus, limit, offset int) ([]*entity.StockOpname, error) {
	defer r.s.lockRead(r.locked)()
	var opnames []*entity.StockOpname
	for _, o := range r.s.opnames {
		if status != "" && o.Status != status {
			continue
		}
		opnames = append(opnames, cloneOpname(o))
	}
	sort.Slice(opnames, func(i, j int) bool { return opnames[i].DocNumber > opnames[j].DocNumber })
	return paginate(opnames, limit, offset), nil
}

// ─── Sequence ─────────────────────────────────────────────────────────────

type sequenceRepo struct {
	s      *Store
	locked bool
}

func (r *sequenceRepo) Next(_ context.Context, name string) (int64, error) {
	defer r.s.lockWrite(r.locked)()
	r.s.sequences[name]++
	return r.s.sequences[name], nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}
