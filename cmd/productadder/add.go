package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"productadder/internal/codec"
	"productadder/internal/config"
	"productadder/internal/domain"
	applog "productadder/internal/log"
	"productadder/internal/selection"
	"productadder/internal/services"
	"productadder/internal/uploader"
	"productadder/internal/validate"
)

type addOptions struct {
	form   domain.Form
	images []string
	colors []string
}

func newAddCmd(v *viper.Viper) *cobra.Command {
	var o addOptions
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save one product from local image files",
		Example: "  productadder add --name Shirt --category Apparel --price 19.99 \\\n" +
			"    --sizes S,M --image front.jpg --image back.png --color ff00ff00",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return add(cmd.Context(), config.FromViper(v), o, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.form.Name, "name", "", "product name")
	f.StringVar(&o.form.Category, "category", "", "product category")
	f.StringVar(&o.form.Price, "price", "", "price")
	f.StringVar(&o.form.OfferPercentage, "offer", "", "offer percentage")
	f.StringVar(&o.form.Description, "description", "", "description")
	f.StringVar(&o.form.Sizes, "sizes", "", "comma separated sizes")
	f.StringArrayVar(&o.images, "image", nil, "image file, repeatable")
	f.StringArrayVar(&o.colors, "color", nil, "ARGB color in hex, repeatable")
	return cmd
}

// selectionFrom turns the flags into the same selection the form builds.
func selectionFrom(o addOptions) (selection.State, error) {
	var s selection.State
	refs := make([]domain.ImageRef, 0, len(o.images))
	for _, img := range o.images {
		refs = append(refs, domain.ImageRef(img))
	}
	s = selection.AddImages(s, refs...)
	for _, c := range o.colors {
		hex, ok := validate.ColorHex(c)
		if !ok {
			return s, fmt.Errorf("invalid color %q", c)
		}
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return s, fmt.Errorf("invalid color %q", c)
		}
		s = selection.AddColor(s, domain.Color(n))
	}
	return s, nil
}

type progress struct{ w io.Writer }

func (p progress) Show() { fmt.Fprintln(p.w, "saving...") }
func (p progress) Hide() {}

func add(ctx context.Context, cfg config.Config, o addOptions, out, errOut io.Writer) error {
	applog.Setup(cfg.LogFile)

	sel, err := selectionFrom(o)
	if err != nil {
		return err
	}
	docs, closeDocs, err := openDocs(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDocs()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	svc := services.NewProductService(codec.NewJPEG(codec.FileResolver{}), uploader.New(store), docs)
	res, err := svc.Save(ctx, o.form, sel, progress{w: errOut})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, res.DocumentID)
	return nil
}
