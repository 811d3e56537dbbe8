package backend

import (
	"cmp"
	"slices"

	"github.com/fixitnow/chatsync/internal/remote"
)

func sortConversations(convs []remote.ConversationDTO) {
	slices.SortStableFunc(convs, func(a, b remote.ConversationDTO) int {
		if c := cmp.Compare(b.LastMessageAt, a.LastMessageAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
}
