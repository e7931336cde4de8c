package utils

import (
	"math/rand"
)

var avatarEmojis = []string{
	"🌱", "🦊", "🐨", "🐸", "🦉", "🐯", "🐱", "🐶",
	"😀", "😎", "🤓", "🧐", "👨‍💻", "👩‍💻", "🧑‍🚀", "🧙",
	"⭐", "✨", "🔥", "💡", "🚀", "🎯", "💎", "🏆",
}

// GetRandomEmoji 返回一个随机 emoji 用于默认头像
func GetRandomEmoji() string {
	return avatarEmojis[rand.Intn(len(avatarEmojis))]
}

// GetCommonEmojis 返回常用 emoji 列表供用户选择
func GetCommonEmojis() []string {
	return avatarEmojis
}
