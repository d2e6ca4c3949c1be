package eventbus

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// consumeScript atomically pops the highest-scored member off the queue
// sorted set and files it into the in-flight hash, so a process crash
// between the pop and the in-flight write can never silently drop an
// event. KEYS[1] = queue key, KEYS[2] = in-flight hash key.
var consumeScript = redis.NewScript(`
local popped = redis.call("ZPOPMAX", KEYS[1], 1)
if #popped == 0 then
	return nil
end
local member = popped[1]
local sep = string.find(member, "|")
local id = string.sub(member, 1, sep - 1)
redis.call("HSET", KEYS[2], id, member)
return member
`)

// ConsumeAtomic is the Lua-scripted equivalent of Consume, guaranteeing
// the pop-then-file-as-in-flight step is indivisible even under
// concurrent consumers on the same queue.
func (b *Bus) ConsumeAtomic(ctx context.Context, queue Queue) (id string, evt Event, ok bool, err error) {
	res, err := consumeScript.Run(ctx, b.client, []string{queueKey(queue), inflightKey(queue)}).Result()
	if err == redis.Nil {
		return "", Event{}, false, nil
	}
	if err != nil {
		return "", Event{}, false, fmt.Errorf("eventbus: consume script on %s: %w", queue, err)
	}
	if res == nil {
		return "", Event{}, false, nil
	}

	raw, ok := res.(string)
	if !ok {
		return "", Event{}, false, fmt.Errorf("eventbus: unexpected script result type for %s", queue)
	}

	inflightID, decoded, err := decodeMember(raw)
	if err != nil {
		return "", Event{}, false, fmt.Errorf("eventbus: decode consumed member from %s: %w", queue, err)
	}
	return inflightID, decoded, true, nil
}
