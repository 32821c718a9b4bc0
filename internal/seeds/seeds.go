// Package seeds populates the four category collections with the sample
// records used for demos and local development. Records are created
// through catalog.FindOrCreate, so re-running the seeder never produces
// duplicates.
package seeds

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Robo-91/grocery-inventory/internal/catalog"
)

// placeholderPNG is a 1x1 transparent PNG attached to every seeded record
// in place of a real upload.
var placeholderPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

type record struct {
	attrs map[string]any
	file  string
}

type batch struct {
	schema  catalog.Schema
	records []record
}

var sampleBatches = []batch{
	{
		schema: catalog.Dairy,
		records: []record{
			{attrs: map[string]any{"brandname": "Cheep Brand", "product": "Milk", "price": 2.89}, file: "milk.jpg"},
			{attrs: map[string]any{"brandname": "Cheep Brand", "product": "Yogurt", "price": 1.59}, file: "yogurt.jpg"},
			{attrs: map[string]any{"brandname": "Cheep Brand", "product": "Eggs", "price": 1.89}, file: "eggs.jpg"},
			{attrs: map[string]any{"brandname": "Cheep Brand", "product": "Butter", "price": 2.59}, file: "butter.jpg"},
		},
	},
	{
		schema: catalog.Grocery,
		records: []record{
			{attrs: map[string]any{"brandname": "Cheep Brand", "product": "Bread", "price": 3.99, "quantity": 10.0}, file: "bread.jpg"},
			{attrs: map[string]any{"brandname": "Cheep Brand", "product": "Soup", "price": 1.89, "quantity": 18.0}, file: "soup.jpg"},
			{attrs: map[string]any{"brandname": "Cheep Brand", "product": "Juice", "price": 2.99, "quantity": 9.0}, file: "juice.jpg"},
			{attrs: map[string]any{"brandname": "Cheep Brand", "product": "Rice", "price": 1.99, "quantity": 5.0}, file: "rice.jpg"},
			{attrs: map[string]any{"brandname": "Cheep Brand", "product": "Cereal", "price": 5.99, "quantity": 15.0}, file: "cereal.jpg"},
			{attrs: map[string]any{"brandname": "Cheep Brand", "product": "Flour", "price": 6.79, "quantity": 18.0}, file: "flour.jpg"},
		},
	},
	{
		schema: catalog.Market,
		records: []record{
			{attrs: map[string]any{"name": "Bacon", "price": 3.99, "usda": catalog.GradeNone, "quantity": 1.0}, file: "bacon.jpg"},
			{attrs: map[string]any{"name": "Ribeye Steak", "price": 8.99, "usda": catalog.GradePrime, "quantity": 7.0}, file: "steak.jpg"},
			{attrs: map[string]any{"name": "Chicken", "price": 7.99, "usda": catalog.GradeNone, "quantity": 15.0}, file: "chicken.jpg"},
		},
	},
	{
		schema: catalog.Produce,
		records: []record{
			{attrs: map[string]any{"name": "Bananas", "price": 1.99, "type": catalog.TypeFruit}, file: "banana.jpg"},
			{attrs: map[string]any{"name": "Apples", "price": 1.59, "type": catalog.TypeFruit}, file: "apple.jpg"},
			{attrs: map[string]any{"name": "Spinach", "price": 1.99, "type": catalog.TypeVegetable}, file: "spinach.jpg"},
			{attrs: map[string]any{"name": "Asparagus", "price": 1.89, "type": catalog.TypeVegetable}, file: "asparagus.jpg"},
		},
	},
}

// Run creates the sample records. Records within a category are created
// concurrently; categories run in sequence.
func Run(ctx context.Context, st catalog.Store) error {
	for _, b := range sampleBatches {
		b := b
		g, gctx := errgroup.WithContext(ctx)
		for _, r := range b.records {
			r := r
			g.Go(func() error {
				it := catalog.NewItem(r.attrs, catalog.Image{
					Data:        placeholderPNG,
					ContentType: "image/png",
					File:        r.file,
				})
				existing, created, err := catalog.FindOrCreate(gctx, st, b.schema, it)
				if err != nil {
					zap.S().Errorf("seed %s %q failed: %v", b.schema.Code, it.Ident(b.schema), err)
					return err
				}
				if created {
					zap.S().Infof("new %s item: %s", b.schema.Code, existing.Ident(b.schema))
				} else {
					zap.S().Infof("%s item already present: %s", b.schema.Code, existing.Ident(b.schema))
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}
