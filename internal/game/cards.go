package game

import "math/rand"

// drawRandom moves one uniformly chosen card from deck to hand.
func drawRandom(p *Player, rng *rand.Rand) (CardID, error) {
	if len(p.Deck) == 0 {
		return "", NotFound("deck")
	}
	i := rng.Intn(len(p.Deck))
	card := p.Deck[i]
	last := len(p.Deck) - 1
	p.Deck[i] = p.Deck[last]
	p.Deck = p.Deck[:last]
	p.Hand = append(p.Hand, card)
	return card, nil
}

// discard moves the first copy of card from hand to the discard pile.
func discard(p *Player, card CardID) error {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			p.Discard = append(p.Discard, card)
			return nil
		}
	}
	return NotFound("card")
}

func shuffle(cards []CardID, rng *rand.Rand) {
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
}

// recycleDiscard shuffles the discard pile back into the deck.
func recycleDiscard(p *Player, rng *rand.Rand) {
	p.Deck = append(p.Deck, p.Discard...)
	p.Discard = []CardID{}
	shuffle(p.Deck, rng)
}

// refill draws until the hand holds size cards. It reports whether the deck
// ran out before the hand was full.
func refill(p *Player, size int, reshuffle bool, rng *rand.Rand) (exhausted bool) {
	for len(p.Hand) < size {
		if len(p.Deck) == 0 && reshuffle && len(p.Discard) > 0 {
			recycleDiscard(p, rng)
		}
		if _, err := drawRandom(p, rng); err != nil {
			return true
		}
	}
	return false
}

// dealDeck replaces the player's cards with a fresh shuffled deck.
func dealDeck(p *Player, cards []CardID, rng *rand.Rand) {
	p.Deck = append([]CardID{}, cards...)
	p.Hand = []CardID{}
	p.Discard = []CardID{}
	shuffle(p.Deck, rng)
}
