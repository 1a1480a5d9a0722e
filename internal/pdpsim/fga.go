package pdpsim

import (
	"context"
	"fmt"
	"strings"

	fga "github.com/openfga/go-sdk/client"
)

// FGADecider delegates decisions to an OpenFGA store, mapping the
// input document to a user/relation/object tuple check. Useful when
// the policy under test is relationship-based rather than rule-based.
type FGADecider struct {
	c *fga.OpenFgaClient
}

type FGAConfig struct {
	APIURL  string
	StoreID string
	ModelID string // optional, pins a specific authorization model
}

func NewFGA(cfg FGAConfig) (*FGADecider, error) {
	conf := &fga.ClientConfiguration{
		ApiUrl:  cfg.APIURL,
		StoreId: cfg.StoreID,
	}
	if cfg.ModelID != "" {
		conf.AuthorizationModelId = cfg.ModelID
	}
	client, err := fga.NewSdkClient(conf)
	if err != nil {
		return nil, fmt.Errorf("openfga_client_init: %w", err)
	}
	return &FGADecider{c: client}, nil
}

func (d *FGADecider) Decide(ctx context.Context, in Input) (bool, error) {
	object := "system:global"
	if in.Action.Resource != nil {
		object = "resource:" + in.Action.Resource.Name()
	}
	checkReq := fga.ClientCheckRequest{
		User:     "user:" + in.Context.Identity.User,
		Relation: strings.ToLower(in.Action.Operation),
		Object:   object,
	}
	resp, err := d.c.Check(ctx).Body(checkReq).Execute()
	if err != nil {
		return false, fmt.Errorf("fga_check_error: %w", err)
	}
	return resp.Allowed != nil && *resp.Allowed, nil
}
