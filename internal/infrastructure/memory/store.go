// Package memory implementa los puertos de persistencia sobre mapas en
// memoria. Respalda los tests de casos de uso y sirve como referencia mínima
// de la semántica esperada de los adaptadores reales: mismo contrato, misma
// semántica todo-o-nada en Run.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Inventario-core/internal/application/inventory"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// Ensure Store implements inventory.TxRunner.
var _ inventory.TxRunner = (*Store)(nil)

// Store almacén en memoria. Run serializa las transacciones con un mutex y
// revierte por snapshot: una transacción fallida no deja rastro, igual que
// el rollback de PostgreSQL.
type Store struct {
	mu sync.RWMutex

	products       map[string]*entity.Product
	locations      map[string]*entity.Location
	batches        map[string]*entity.StockBatch
	batchSeq       int64
	movements      []*entity.Movement
	salesOrders    map[string]*entity.SalesOrder
	purchaseOrders map[string]*entity.PurchaseOrder
	transfers      map[string]*entity.StockTransfer
	adjustments    map[string]*entity.StockAdjustment
	opnames        map[string]*entity.StockOpname
	sequences      map[string]int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:       map[string]*entity.Product{},
		locations:      map[string]*entity.Location{},
		batches:        map[string]*entity.StockBatch{},
		salesOrders:    map[string]*entity.SalesOrder{},
		purchaseOrders: map[string]*entity.PurchaseOrder{},
		transfers:      map[string]*entity.StockTransfer{},
		adjustments:    map[string]*entity.StockAdjustment{},
		opnames:        map[string]*entity.StockOpname{},
		sequences:      map[string]int64{},
	}
}

// Repos ata los adaptadores en memoria al almacén.
func (s *Store) Repos() inventory.Repos {
	return inventory.Repos{
		Batches:        &batchRepo{s: s},
		Movements:      &movementRepo{s: s},
		Products:       &productRepo{s: s},
		Locations:      &locationRepo{s: s},
		SalesOrders:    &salesOrderRepo{s: s},
		PurchaseOrders: &purchaseOrderRepo{s: s},
		Transfers:      &transferRepo{s: s},
		Adjustments:    &adjustmentRepo{s: s},
		Opnames:        &opnameRepo{s: s},
		Sequences:      &sequenceRepo{s: s},
	}
}

// Run ejecuta fn bajo el mutex con rollback por snapshot ante error.
// Las transacciones quedan totalmente serializadas; suficiente para tests y
// coherente con el aislamiento que dan los locks de fila en PostgreSQL.
func (s *Store) Run(_ context.Context, fn func(r inventory.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	if err := fn(s.reposLocked()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// reposLocked ata adaptadores que asumen el mutex ya tomado por Run.
func (s *Store) reposLocked() inventory.Repos {
	return inventory.Repos{
		Batches:        &batchRepo{s: s, locked: true},
		Movements:      &movementRepo{s: s, locked: true},
		Products:       &productRepo{s: s, locked: true},
		Locations:      &locationRepo{s: s, locked: true},
		SalesOrders:    &salesOrderRepo{s: s, locked: true},
		PurchaseOrders: &purchaseOrderRepo{s: s, locked: true},
		Transfers:      &transferRepo{s: s, locked: true},
		Adjustments:    &adjustmentRepo{s: s, locked: true},
		Opnames:        &opnameRepo{s: s, locked: true},
		Sequences:      &sequenceRepo{s: s, locked: true},
	}
}

type snapshot struct {
	products       map[string]*entity.Product
	locations      map[string]*entity.Location
	batches        map[string]*entity.StockBatch
	batchSeq       int64
	movements      []*entity.Movement
	salesOrders    map[string]*entity.SalesOrder
	purchaseOrders map[string]*entity.PurchaseOrder
	transfers      map[string]*entity.StockTransfer
	adjustments    map[string]*entity.StockAdjustment
	opnames        map[string]*entity.StockOpname
	sequences      map[string]int64
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		products:       make(map[string]*entity.Product, len(s.products)),
		locations:      make(map[string]*entity.Location, len(s.locations)),
		batches:        make(map[string]*entity.StockBatch, len(s.batches)),
		batchSeq:       s.batchSeq,
		movements:      make([]*entity.Movement, len(s.movements)),
		salesOrders:    make(map[string]*entity.SalesOrder, len(s.salesOrders)),
		purchaseOrders: make(map[string]*entity.PurchaseOrder, len(s.purchaseOrders)),
		transfers:      make(map[string]*entity.StockTransfer, len(s.transfers)),
		adjustments:    make(map[string]*entity.StockAdjustment, len(s.adjustments)),
		opnames:        make(map[string]*entity.StockOpname, len(s.opnames)),
		sequences:      make(map[string]int64, len(s.sequences)),
	}
	for k, v := range s.products {
		snap.products[k] = cloneProduct(v)
	}
	for k, v := range s.locations {
		snap.locations[k] = cloneLocation(v)
	}
	for k, v := range s.batches {
		snap.batches[k] = cloneBatch(v)
	}
	// Los movimientos son inmutables; basta copiar el slice.
	copy(snap.movements, s.movements)
	for k, v := range s.salesOrders {
		snap.salesOrders[k] = cloneSalesOrder(v)
	}
	for k, v := range s.purchaseOrders {
		snap.purchaseOrders[k] = clonePurchaseOrder(v)
	}
	for k, v := range s.transfers {
		snap.transfers[k] = cloneTransfer(v)
	}
	for k, v := range s.adjustments {
		snap.adjustments[k] = cloneAdjustment(v)
	}
	for k, v := range s.opnames {
		snap.opnames[k] = cloneOpname(v)
	}
	for k, v := range s.sequences {
		snap.sequences[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.products = snap.products
	s.locations = snap.locations
	s.batches = snap.batches
	s.batchSeq = snap.batchSeq
	s.movements = snap.movements
	s.salesOrders = snap.salesOrders
	s.purchaseOrders = snap.purchaseOrders
	s.transfers = snap.transfers
	s.adjustments = snap.adjustments
	s.opnames = snap.opnames
	s.sequences = snap.sequences
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}

func cloneLocation(l *entity.Location) *entity.Location {
	c := *l
	return &c
}

func cloneBatch(b *entity.StockBatch) *entity.StockBatch {
	c := *b
	return &c
}

func cloneSalesOrder(o *entity.SalesOrder) *entity.SalesOrder {
	c := *o
	c.Lines = append([]entity.SalesOrderLine(nil), o.Lines...)
	return &c
}

func clonePurchaseOrder(o *entity.PurchaseOrder) *entity.PurchaseOrder {
	c := *o
	c.Lines = append([]entity.PurchaseOrderLine(nil), o.Lines...)
	return &c
}

func cloneTransfer(t *entity.StockTransfer) *entity.StockTransfer {
	c := *t
	c.Lines = append([]entity.StockTransferLine(nil), t.Lines...)
	return &c
}

func cloneAdjustment(a *entity.StockAdjustment) *entity.StockAdjustment {
	c := *a
	return &c
}

func cloneOpname(o *entity.StockOpname) *entity.StockOpname {
	c := *o
	c.Items = make([]entity.OpnameItem, len(o.Items))
	for i := range o.Items {
		c.Items[i] = cloneOpnameItem(&o.Items[i])
	}
	return &c
}

func cloneOpnameItem(it *entity.OpnameItem) entity.OpnameItem {
	c := *it
	if it.ActualQty != nil {
		v := *it.ActualQty
		c.ActualQty = &v
	}
	if it.CountedAt != nil {
		t := *it.CountedAt
		c.CountedAt = &t
	}
	return c
}
