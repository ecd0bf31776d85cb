package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/crypto/ecies"
	"github.com/gaze-network/auctionhouse/common/errs"
)

// Client signs and encrypts messages with a secp256k1 key pair. A client created
// without a private key can only verify and encrypt.
type Client struct {
	privateKey *ecdsa.PrivateKey
}

func New(privateKeyStr string) (*Client, error) {
	privateKeyStr = strings.TrimPrefix(strings.TrimSpace(privateKeyStr), "0x")
	if privateKeyStr == "" {
		return &Client{}, nil
	}
	privateKey, err := ethcrypto.HexToECDSA(privateKeyStr)
	if err != nil {
		return nil, errors.Wrap(errors.Mark(err, errs.InvalidArgument), "decode private key")
	}
	return &Client{privateKey: privateKey}, nil
}

// Generate creates a client with a new random private key.
func Generate() (*Client, error) {
	privateKey, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate private key")
	}
	return &Client{privateKey: privateKey}, nil
}

// PrivateKey returns the hex encoded private key, empty without one.
func (c *Client) PrivateKey() string {
	if c.privateKey == nil {
		return ""
	}
	return hex.EncodeToString(ethcrypto.FromECDSA(c.privateKey))
}

// PublicKey returns the hex encoded compressed public key, empty without a private key.
func (c *Client) PublicKey() string {
	if c.privateKey == nil {
		return ""
	}
	return hex.EncodeToString(ethcrypto.CompressPubkey(&c.privateKey.PublicKey))
}

// Address returns the account address of the key pair.
func (c *Client) Address() common.Address {
	if c.privateKey == nil {
		return common.Address{}
	}
	return ethcrypto.PubkeyToAddress(c.privateKey.PublicKey)
}

func (c *Client) Sign(message string) (string, error) {
	if c.privateKey == nil {
		return "", errors.Wrap(errs.InvalidState, "private key is required to sign")
	}
	signature, err := ethcrypto.Sign(ethcrypto.Keccak256([]byte(message)), c.privateKey)
	if err != nil {
		return "", errors.Wrap(err, "sign message")
	}
	return hex.EncodeToString(signature), nil
}

func (c *Client) Verify(message, sigStr, pubKeyStr string) (bool, error) {
	sigBytes, err := hex.DecodeString(sigStr)
	if err != nil {
		return false, errors.Wrap(err, "signature decode")
	}
	if len(sigBytes) != ethcrypto.SignatureLength {
		return false, errors.Wrapf(errs.InvalidArgument, "signature must be %d bytes", ethcrypto.SignatureLength)
	}
	pubBytes, err := hex.DecodeString(pubKeyStr)
	if err != nil {
		return false, errors.Wrap(err, "pubkey decode")
	}
	if _, err := ethcrypto.DecompressPubkey(pubBytes); err != nil {
		return false, errors.Wrap(err, "pubkey parse")
	}

	// recovery id is not part of the verified signature
	return ethcrypto.VerifySignature(pubBytes, ethcrypto.Keccak256([]byte(message)), sigBytes[:64]), nil
}

func (c *Client) Encrypt(message, pubKeyStr string) (string, error) {
	pubBytes, err := hex.DecodeString(pubKeyStr)
	if err != nil {
		return "", errors.Wrap(err, "pubkey decode")
	}
	pubKey, err := ethcrypto.DecompressPubkey(pubBytes)
	if err != nil {
		return "", errors.Wrap(err, "parse pubkey")
	}

	ciphertext, err := ecies.Encrypt(rand.Reader, ecies.ImportECDSAPublic(pubKey), []byte(message), nil, nil)
	if err != nil {
		return "", errors.Wrap(err, "encrypt message")
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (c *Client) Decrypt(ciphertextStr string) (string, error) {
	if c.privateKey == nil {
		return "", errors.Wrap(errs.InvalidState, "private key is required to decrypt")
	}
	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextStr)
	if err != nil {
		return "", errors.Wrap(err, "decode ciphertext")
	}
	plaintext, err := ecies.ImportECDSA(c.privateKey).Decrypt(ciphertext, nil, nil)
	if err != nil {
		return "", errors.Wrap(err, "decrypt")
	}
	return string(plaintext), nil
}
