package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%d"
	PostKeyPrefix      = "post:%d"
	CommunityKeyPrefix = "community:%d"
	MembersKeyPrefix   = "community:%d:members"
	CommunityListKey   = "communities:list"
	PostsListKey       = "posts:list:public"
)

const (
	UserTTL      = 5 * time.Minute
	CommunityTTL = 10 * time.Minute
	MembersTTL   = 2 * time.Minute
	PostTTL      = 30 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func CommunityKey(communityID uint) string {
	return fmt.Sprintf(CommunityKeyPrefix, communityID)
}

func MembersKey(communityID uint) string {
	return fmt.Sprintf(MembersKeyPrefix, communityID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidatePostsList drops the cached anonymous front page.
func InvalidatePostsList(ctx context.Context) {
	Invalidate(ctx, PostsListKey)
}

// InvalidateCommunity drops the community record, its member list and the
// community index. Membership mutations change the member count, so all
// three go stale together.
func InvalidateCommunity(ctx context.Context, communityID uint) {
	Invalidate(ctx, CommunityKey(communityID))
	Invalidate(ctx, MembersKey(communityID))
	Invalidate(ctx, CommunityListKey)
}
