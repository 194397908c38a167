// internal/token/metadata.go
package token

import (
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// MetadataProgramID is the Metaplex token-metadata program.
var MetadataProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

// websiteLabels are social labels promoted to external_url, in priority order.
var websiteLabels = []string{"website", "homepage", "web"}

// Creator entry of the off-chain metadata document.
type Creator struct {
	Address string `json:"address" yaml:"address"`
	Share   uint8  `json:"share" yaml:"share"`
}

// MetadataProperties holds auxiliary links.
type MetadataProperties struct {
	Links map[string]string `json:"links,omitempty" yaml:"links,omitempty"`
}

// MetadataDocument is the JSON document a metadata URI would point to.
type MetadataDocument struct {
	Name                 string              `json:"name" yaml:"name"`
	Symbol               string              `json:"symbol" yaml:"symbol"`
	Description          string              `json:"description,omitempty" yaml:"description,omitempty"`
	Image                string              `json:"image,omitempty" yaml:"image,omitempty"`
	ExternalURL          string              `json:"external_url,omitempty" yaml:"external_url,omitempty"`
	SellerFeeBasisPoints uint16              `json:"seller_fee_basis_points" yaml:"seller_fee_basis_points"`
	Creators             []Creator           `json:"creators" yaml:"creators"`
	Properties           *MetadataProperties `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// MetadataDocument builds the off-chain metadata for the token. Fungible
// tokens carry no royalties and no creators.
func (c Config) MetadataDocument() MetadataDocument {
	doc := MetadataDocument{
		Name:        c.Name,
		Symbol:      c.Symbol,
		Description: c.Description,
		Image:       c.LogoURI,
	}
	for _, label := range websiteLabels {
		if link, ok := c.Socials[label]; ok {
			doc.ExternalURL = link
			break
		}
	}
	if len(c.Socials) > 0 {
		links := make(map[string]string, len(c.Socials))
		for k, v := range c.Socials {
			links[k] = v
		}
		doc.Properties = &MetadataProperties{Links: links}
	}
	return doc
}

// MarshalIndent renders the document as it would be uploaded.
func (d MetadataDocument) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// MetadataAddress derives the metadata PDA for the configured mint.
// The derivation is pure; no account is looked up.
func (c Config) MetadataAddress() (solana.PublicKey, error) {
	mint, ok := c.Mint()
	if !ok {
		return solana.PublicKey{}, ErrNoMintAddress
	}
	addr, _, err := solana.FindProgramAddress(
		[][]byte{
			[]byte("metadata"),
			MetadataProgramID.Bytes(),
			mint.Bytes(),
		},
		MetadataProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive metadata address: %w", err)
	}
	return addr, nil
}
