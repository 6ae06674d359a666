package message

import (
	"math/rand/v2"
	"sync"

	"github.com/grovetools/phantomit/config"
	"github.com/grovetools/phantomit/errors"
)

// ErrNoAPIKey is returned when the key pool is empty.
var ErrNoAPIKey = errors.New(errors.ErrCodeNoAPIKey, `no Groq API key found
Add one to your .env file:

  GROQ_API_KEY=your_key

Or add several for rotation:

  GROQ_API_KEY_1=key_one
  GROQ_API_KEY_2=key_two

Get a free key at https://console.groq.com`)

// KeyPool hands out API keys according to a selection policy.
type KeyPool struct {
	mu     sync.Mutex
	keys   []string
	policy string
	rnd    *rand.Rand
	next   int
}

// NewKeyPool builds a pool from keys, dropping blanks and duplicates while
// keeping first-seen order. rnd may be nil for the random policy.
func NewKeyPool(keys []string, policy string, rnd *rand.Rand) *KeyPool {
	seen := make(map[string]bool, len(keys))
	var unique []string
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, k)
	}
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &KeyPool{keys: unique, policy: policy, rnd: rnd}
}

// Len returns the number of distinct keys.
func (p *KeyPool) Len() int {
	return len(p.keys)
}

// Next returns the key to use for the next request.
func (p *KeyPool) Next() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.keys) == 0 {
		return "", ErrNoAPIKey
	}
	if p.policy == config.KeyPolicyRoundRobin {
		k := p.keys[p.next%len(p.keys)]
		p.next++
		return k, nil
	}
	return p.keys[p.rnd.IntN(len(p.keys))], nil
}
