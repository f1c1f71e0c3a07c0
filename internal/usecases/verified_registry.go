package usecases

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
	"nft-launchpad.backend/internal/domain/entities"
)

//go:embed default_verified_collections.yaml
var defaultVerifiedCollections []byte

// VerifiedInfo is one entry of the static verified list.
type VerifiedInfo struct {
	Address  string `yaml:"address" json:"address"`
	Name     string `yaml:"name" json:"name"`
	Symbol   string `yaml:"symbol" json:"symbol"`
	ImageURL string `yaml:"image_url" json:"imageUrl,omitempty"`
}

type verifiedFile struct {
	Collections []VerifiedInfo `yaml:"collections"`
}

// ActiveLaunchSource lists launch pools currently minting.
type ActiveLaunchSource interface {
	ListActive(ctx context.Context) ([]*entities.LaunchPool, error)
}

// VerifiedRegistry combines the static verified list with active launch
// pools. The two signals stay distinct; IsVerified is their union.
type VerifiedRegistry struct {
	ordered []VerifiedInfo
	static  map[string]VerifiedInfo
	pools   ActiveLaunchSource
}

func NewVerifiedRegistry(entries []VerifiedInfo, pools ActiveLaunchSource) *VerifiedRegistry {
	r := &VerifiedRegistry{
		static: make(map[string]VerifiedInfo, len(entries)),
		pools:  pools,
	}
	for _, e := range entries {
		e.Address = strings.ToLower(strings.TrimSpace(e.Address))
		if e.Address == "" {
			continue
		}
		if _, dup := r.static[e.Address]; dup {
			continue
		}
		r.static[e.Address] = e
		r.ordered = append(r.ordered, e)
	}
	return r
}

// LoadVerifiedRegistry reads the YAML list at path, or the built-in list when
// path is empty.
func LoadVerifiedRegistry(path string, pools ActiveLaunchSource) (*VerifiedRegistry, error) {
	data := defaultVerifiedCollections
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read verified collections file: %w", err)
		}
		data = raw
	}

	var f verifiedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse verified collections yaml: %w", err)
	}
	return NewVerifiedRegistry(f.Collections, pools), nil
}

func (r *VerifiedRegistry) IsStaticallyVerified(address string) bool {
	if r == nil {
		return false
	}
	_, ok := r.static[strings.ToLower(address)]
	return ok
}

func (r *VerifiedRegistry) Lookup(address string) (VerifiedInfo, bool) {
	if r == nil {
		return VerifiedInfo{}, false
	}
	info, ok := r.static[strings.ToLower(address)]
	return info, ok
}

// ActiveLaunches returns active launch pools keyed by lowercased contract address.
func (r *VerifiedRegistry) ActiveLaunches(ctx context.Context) (map[string]*entities.LaunchPool, error) {
	out := map[string]*entities.LaunchPool{}
	if r == nil || r.pools == nil {
		return out, nil
	}
	pools, err := r.pools.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active launch pools: %w", err)
	}
	for _, p := range pools {
		out[strings.ToLower(p.ContractAddress)] = p
	}
	return out, nil
}

func (r *VerifiedRegistry) IsActiveLaunch(ctx context.Context, address string) (bool, error) {
	active, err := r.ActiveLaunches(ctx)
	if err != nil {
		return false, err
	}
	_, ok := active[strings.ToLower(address)]
	return ok, nil
}

func (r *VerifiedRegistry) IsVerified(ctx context.Context, address string) (bool, error) {
	if r.IsStaticallyVerified(address) {
		return true, nil
	}
	return r.IsActiveLaunch(ctx, address)
}

// KnownCollections lists static entries first, then active launch pools not
// already listed. Summaries carry both verification flags.
func (r *VerifiedRegistry) KnownCollections(ctx context.Context) ([]*entities.CollectionSummary, error) {
	active, err := r.ActiveLaunches(ctx)
	if err != nil {
		return nil, err
	}

	out := []*entities.CollectionSummary{}
	if r != nil {
		for _, e := range r.ordered {
			_, launching := active[e.Address]
			s := &entities.CollectionSummary{
				Address:            e.Address,
				Name:               e.Name,
				Symbol:             e.Symbol,
				Verified:           true,
				StaticallyVerified: true,
				ActiveLaunch:       launching,
				Source:             entities.CollectionSourceBlockchain,
			}
			if e.ImageURL != "" {
				s.ImageURL.SetValid(e.ImageURL)
			}
			out = append(out, s)
		}
	}

	for _, p := range sortedPools(active) {
		addr := strings.ToLower(p.ContractAddress)
		if r.IsStaticallyVerified(addr) {
			continue
		}
		s := &entities.CollectionSummary{
			Address:      addr,
			Name:         p.Name,
			Symbol:       p.Symbol,
			ImageURL:     p.ImageURL,
			Verified:     true,
			ActiveLaunch: true,
			Source:       entities.CollectionSourceLaunchpad,
		}
		if p.MaxSupply > 0 {
			s.MaxSupply.SetValid(p.MaxSupply)
		}
		out = append(out, s)
	}
	return out, nil
}

// Annotate stamps verification flags onto a summary.
func (r *VerifiedRegistry) Annotate(s *entities.CollectionSummary, active map[string]*entities.LaunchPool) {
	if s == nil {
		return
	}
	s.StaticallyVerified = r.IsStaticallyVerified(s.Address)
	_, s.ActiveLaunch = active[strings.ToLower(s.Address)]
	s.Verified = s.StaticallyVerified || s.ActiveLaunch
	if s.ActiveLaunch {
		s.Source = entities.CollectionSourceLaunchpad
	}
}

func sortedPools(m map[string]*entities.LaunchPool) []*entities.LaunchPool {
	out := make([]*entities.LaunchPool, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *entities.LaunchPool) int {
		return strings.Compare(strings.ToLower(a.ContractAddress), strings.ToLower(b.ContractAddress))
	})
	return out
}
